// Package tasks stores task-state documents in Redis: one document per
// tagging task plus a cached view of the owning job. The status vocabulary
// is shared with the platform sequencer.
package tasks

import (
	"fmt"

	"text2phenotype.com/seqlearn/redis"
)

const (
	JobsDB redis.DB = 1
	TagsDB redis.DB = 2
)

type TaskStatus string

const (
	TaskStatusProcessing       TaskStatus = "processing"
	TaskStatusSubmitted        TaskStatus = "submitted"
	TaskStatusStarted          TaskStatus = "started"
	TaskStatusFailed           TaskStatus = "failed"
	TaskStatusCompletedSuccess TaskStatus = "completed - success"
	TaskStatusCompletedFailure TaskStatus = "completed - failure"
	TaskStatusCanceled         TaskStatus = "canceled"
)

func (s TaskStatus) Complete() bool {
	return s == TaskStatusCompletedSuccess || s == TaskStatusCompletedFailure || s == TaskStatusCanceled
}

func (s TaskStatus) Submitted() bool {
	return s == TaskStatusSubmitted || s == TaskStatusStarted || s == TaskStatusProcessing
}

type Client struct {
	Tags TagTasks
	Jobs JobTasks
}

// NewClient is the preferred way of working with task documents.
func NewClient() (Client, error) {
	jobsRedisClient, err := redis.NewClient(JobsDB)
	if err != nil {
		return Client{}, err
	}
	tagsRedisClient, err := redis.NewClient(TagsDB)
	if err != nil {
		return Client{}, err
	}
	return Client{
		Tags: TagTasks{client: tagsRedisClient},
		Jobs: JobTasks{client: jobsRedisClient},
	}, nil
}

func (client *Client) Close() {
	_ = client.Tags.client.Close()
	_ = client.Jobs.client.Close()
}

func cachedPropertiesKey(redisKey string) string {
	return fmt.Sprintf("%s-cached-properties", redisKey)
}
