package worker

import (
	"fmt"

	"text2phenotype.com/seqlearn/tasks"
)

type redisTransactions interface {
	getTagTask(redisKey string) (*tasks.TagTask, error)
	getJobTask(task *Task) (*tasks.JobTask, error)
	onTaskStarted(task *Task) error
	onTaskCancelled(task *Task, errorMessages ...string) error
	onTaskExceededRetries(task *Task, maxRetries int) error
	onTaskFailedWithError(task *Task, err error) error
	onTaskComplete(task *Task) error
	close()
}

type redisClientWrapper struct {
	tasksClient *tasks.Client
}

func (wrapper *redisClientWrapper) close() {
	wrapper.tasksClient.Close()
}

func (wrapper *redisClientWrapper) onTaskStarted(task *Task) error {
	return wrapper.tasksClient.Tags.Update(task.redisKey, func(tagTask *tasks.TagTask) {
		tagTask.TaskStatuses.Seqlearn.Status = tasks.TaskStatusStarted
		tagTask.TaskStatuses.Seqlearn.Attempts += 1
		tagTask.TaskStatuses.Seqlearn.StartedAt = getFormattedNow()
		tagTask.TaskStatuses.Seqlearn.CompletedAt = nil
	})
}

func (wrapper *redisClientWrapper) onTaskCancelled(task *Task, errorMessages ...string) error {
	return wrapper.tasksClient.Tags.Update(task.redisKey, func(tagTask *tasks.TagTask) {
		tagTask.TaskStatuses.Seqlearn.Status = tasks.TaskStatusCanceled
		tagTask.TaskStatuses.Seqlearn.StartedAt = getFormattedNow()
		tagTask.TaskStatuses.Seqlearn.CompletedAt = getFormattedNow()
		tagTask.TaskStatuses.Seqlearn.Attempts += 1
		tagTask.TaskStatuses.Seqlearn.ErrorMessages = append(
			tagTask.TaskStatuses.Seqlearn.ErrorMessages,
			errorMessages...,
		)
	})
}

func (wrapper *redisClientWrapper) onTaskExceededRetries(task *Task, maxRetries int) error {
	return wrapper.tasksClient.Tags.Update(task.redisKey, func(tagTask *tasks.TagTask) {
		tagTask.TaskStatuses.Seqlearn.Status = tasks.TaskStatusCompletedFailure
		tagTask.TaskStatuses.Seqlearn.StartedAt = getFormattedNow()
		tagTask.TaskStatuses.Seqlearn.CompletedAt = getFormattedNow()
		tagTask.TaskStatuses.Seqlearn.Attempts += 1
		tagTask.TaskStatuses.Seqlearn.ErrorMessages = append(
			tagTask.TaskStatuses.Seqlearn.ErrorMessages,
			fmt.Sprintf(
				"Task has exceeded retries. (Attempts: %d, max retries: %d )",
				tagTask.TaskStatuses.Seqlearn.Attempts,
				maxRetries,
			),
		)
	})
}

func (wrapper *redisClientWrapper) onTaskFailedWithError(task *Task, err error) error {
	return wrapper.tasksClient.Tags.Update(task.redisKey, func(tagTask *tasks.TagTask) {
		tagTask.TaskStatuses.Seqlearn.Status = tasks.TaskStatusFailed
		tagTask.TaskStatuses.Seqlearn.CompletedAt = getFormattedNow()
		tagTask.TaskStatuses.Seqlearn.ErrorMessages = append(
			tagTask.TaskStatuses.Seqlearn.ErrorMessages,
			err.Error(),
		)
	})
}

func (wrapper *redisClientWrapper) onTaskComplete(task *Task) error {
	return wrapper.tasksClient.Tags.Update(task.redisKey, func(tagTask *tasks.TagTask) {
		if !tagTask.TaskStatuses.Seqlearn.Status.Complete() {
			tagTask.TaskStatuses.Seqlearn.Status = tasks.TaskStatusCompletedSuccess
		}
		tagTask.TaskStatuses.Seqlearn.CompletedAt = getFormattedNow()
		tagTask.TaskStatuses.Seqlearn.ResultsFileKey = getResultsFileKey(task)
	})
}

func (wrapper *redisClientWrapper) getTagTask(redisKey string) (*tasks.TagTask, error) {
	return wrapper.tasksClient.Tags.Get(redisKey)
}

func (wrapper *redisClientWrapper) getJobTask(task *Task) (*tasks.JobTask, error) {
	return wrapper.tasksClient.Jobs.GetCached(task.tagTask.JobID)
}
