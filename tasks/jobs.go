package tasks

import (
	"text2phenotype.com/seqlearn/redis"
)

// JobTask is the cached view of the job owning a tagging task.
type JobTask struct {
	UserCanceled bool `json:"user_canceled"`
}

type JobTasks struct {
	client redis.Client
}

func (tasks JobTasks) GetCached(redisKey string) (*JobTask, error) {
	var task JobTask
	if err := tasks.client.GetJSON(cachedPropertiesKey(redisKey), &task); err != nil {
		return nil, err
	}
	return &task, nil
}
