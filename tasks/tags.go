package tasks

import (
	"text2phenotype.com/seqlearn/redis"
)

// TagTask is the state document of one tagging task.
type TagTask struct {
	DocID        string          `json:"document_id"`
	JobID        string          `json:"job_id"`
	TextFileKey  string          `json:"text_file_key"`
	TaskStatuses TagTaskStatuses `json:"task_statuses"`
}

type TagTaskStatuses struct {
	Seqlearn TagTaskInfo `json:"seqlearn"`
}

type TagTaskInfo struct {
	ResultsFileKey string     `json:"results_file_key"`
	ModelKey       string     `json:"model_key"`
	StartedAt      *string    `json:"started_at"`
	CompletedAt    *string    `json:"completed_at"`
	Attempts       int        `json:"attempts"`
	Status         TaskStatus `json:"status"`
	ErrorMessages  []string   `json:"error_messages"`
}

type TagTasks struct {
	client redis.Client
}

func (tasks TagTasks) Get(redisKey string) (*TagTask, error) {
	var task TagTask
	if err := tasks.client.GetJSON(redisKey, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (tasks TagTasks) Update(redisKey string, updateFunc func(task *TagTask)) error {
	var task TagTask
	return tasks.client.UpdateJSON(redisKey, &task, func() {
		updateFunc(&task)
	})
}
