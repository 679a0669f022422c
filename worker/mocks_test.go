package worker

import (
	"github.com/rs/zerolog"
	"github.com/streadway/amqp"
	"text2phenotype.com/seqlearn/pipeline"
	"text2phenotype.com/seqlearn/tasks"
)

type redisMockConfig struct {
	getTagTaskErr            error
	getJobTaskErr            error
	onTaskStartedErr         error
	onTaskCompleteErr        error
	onTaskFailedWithErrorErr error
	taskStatus               tasks.TaskStatus
	attempts                 int
	userCanceled             bool
}

type redisMockCalls struct {
	getTagTask            bool
	getJobTask            bool
	onTaskStarted         bool
	onTaskCancelled       bool
	onTaskExceededRetries bool
	onTaskFailedWithError bool
	onTaskComplete        bool
}

type redisMock struct {
	config redisMockConfig
	calls  redisMockCalls
}

func (mock *redisMock) getTagTask(redisKey string) (*tasks.TagTask, error) {
	mock.calls.getTagTask = true
	if mock.config.getTagTaskErr != nil {
		return nil, mock.config.getTagTaskErr
	}
	return &tasks.TagTask{
		DocID:       "doc-1",
		JobID:       "job-1",
		TextFileKey: "documents/doc-1/chunks/chunk-1.txt",
		TaskStatuses: tasks.TagTaskStatuses{
			Seqlearn: tasks.TagTaskInfo{
				Status:   mock.config.taskStatus,
				Attempts: mock.config.attempts,
			},
		},
	}, nil
}

func (mock *redisMock) getJobTask(task *Task) (*tasks.JobTask, error) {
	mock.calls.getJobTask = true
	if mock.config.getJobTaskErr != nil {
		return nil, mock.config.getJobTaskErr
	}
	return &tasks.JobTask{UserCanceled: mock.config.userCanceled}, nil
}

func (mock *redisMock) onTaskStarted(task *Task) error {
	mock.calls.onTaskStarted = true
	return mock.config.onTaskStartedErr
}

func (mock *redisMock) onTaskCancelled(task *Task, errorMessages ...string) error {
	mock.calls.onTaskCancelled = true
	return nil
}

func (mock *redisMock) onTaskExceededRetries(task *Task, maxRetries int) error {
	mock.calls.onTaskExceededRetries = true
	return nil
}

func (mock *redisMock) onTaskFailedWithError(task *Task, err error) error {
	mock.calls.onTaskFailedWithError = true
	return mock.config.onTaskFailedWithErrorErr
}

func (mock *redisMock) onTaskComplete(task *Task) error {
	mock.calls.onTaskComplete = true
	return mock.config.onTaskCompleteErr
}

func (mock *redisMock) close() {}

type s3MockConfig struct {
	downloadErr error
	uploadErr   error
}

type s3MockCalls struct {
	getChunkText    bool
	saveResultsFile bool
}

type s3Mock struct {
	config s3MockConfig
	calls  s3MockCalls
}

func (mock *s3Mock) getChunkText(task *Task) ([]byte, error) {
	mock.calls.getChunkText = true
	if mock.config.downloadErr != nil {
		return nil, mock.config.downloadErr
	}
	return []byte("ana visited paris"), nil
}

func (mock *s3Mock) saveResultsFile(task *Task, result string) error {
	mock.calls.saveResultsFile = true
	return mock.config.uploadErr
}

func (mock *s3Mock) close() {}

type rmqMockConfig struct {
	pingErr error
	ackErr  error
}

type rmqMockCalls struct {
	pingSequencer       bool
	acknowledgeDelivery bool
	rejectDelivery      bool
}

type rmqMock struct {
	config rmqMockConfig
	calls  rmqMockCalls
}

func (mock *rmqMock) pingSequencer(task *Task, message Message) error {
	mock.calls.pingSequencer = true
	return mock.config.pingErr
}

func (mock *rmqMock) acknowledgeDelivery(delivery *amqp.Delivery) error {
	mock.calls.acknowledgeDelivery = true
	return mock.config.ackErr
}

func (mock *rmqMock) rejectDelivery(delivery *amqp.Delivery, rejectLogger *zerolog.Logger) {
	mock.calls.rejectDelivery = true
}

func (mock *rmqMock) getDeliveriesCh() <-chan amqp.Delivery {
	return nil
}

func (mock *rmqMock) getReqChanErrorsCh() <-chan *amqp.Error {
	return nil
}

func (mock *rmqMock) getRespChanErrorsCh() <-chan *amqp.Error {
	return nil
}

func (mock *rmqMock) close() {}

type pipelineMockConfig struct {
	closeWithoutResult bool
}

type pipelineCall struct {
	called bool
}

type pipelineMock struct {
	config pipelineMockConfig
	calls  pipelineCall
	ppln   pipeline.Pipeline
}

func getPipelineMock(config pipelineMockConfig) *pipelineMock {
	mock := pipelineMock{config: config}
	mock.ppln = func(request pipeline.Request) <-chan pipeline.Result {
		mock.calls.called = true
		out := make(chan pipeline.Result, 1)
		if !mock.config.closeWithoutResult {
			out <- pipeline.Result(`{"tid":"` + request.Tid + `","tokens":[]}`)
		}
		close(out)
		return out
	}
	return &mock
}
