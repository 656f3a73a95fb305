package types

import "github.com/yeisme/hazopvault/pkg/scheduler"

// JobsResponse 定时任务列表.
type JobsResponse struct {
	Jobs    []scheduler.JobInfo `json:"jobs"`
	Waiting int                 `json:"waiting"`
}

const (
	MsgJobTriggered      = "Job triggered"
	MsgJobRemoved        = "Job removed"
	MsgSchedulerDisabled = "Scheduler not running"
)
