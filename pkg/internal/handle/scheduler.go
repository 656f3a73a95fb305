package handle

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	ctxPkg "github.com/yeisme/hazopvault/pkg/context"
	"github.com/yeisme/hazopvault/pkg/internal/types"
	"github.com/yeisme/hazopvault/pkg/scheduler"
)

// schedulerFrom 取出注入的调度器，未注入时直接返回 503.
func schedulerFrom(c *gin.Context) (*scheduler.Scheduler, bool) {
	sched := ctxPkg.GetScheduler(c.Request.Context())
	if sched == nil {
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, types.ErrorResponse{Error: types.MsgSchedulerDisabled})
		return nil, false
	}

	return sched, true
}

func schedulerError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, scheduler.ErrJobNotFound) {
		status = http.StatusNotFound
	}

	c.AbortWithStatusJSON(status, types.ErrorResponse{Error: err.Error()})
}

// SchedulerJobs 返回所有调度器任务信息.
//
//	@Summary	定时任务列表
//	@Tags		管理
//	@Produce	json
//	@Success	200	{object}	types.JobsResponse
//	@Router		/api/admin/jobs [get]
func SchedulerJobs(c *gin.Context) {
	sched, ok := schedulerFrom(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, types.JobsResponse{Jobs: sched.GetJobInfos(), Waiting: sched.JobsWaitingInQueue()})
}

// SchedulerRunJob 立即执行一次指定任务.
//
//	@Summary	立即执行任务
//	@Tags		管理
//	@Produce	json
//	@Param		name	path		string	true	"任务名称"
//	@Success	202		{object}	types.MessageResponse
//	@Failure	404		{object}	types.ErrorResponse
//	@Router		/api/admin/jobs/{name}/run [post]
func SchedulerRunJob(c *gin.Context) {
	sched, ok := schedulerFrom(c)
	if !ok {
		return
	}

	if err := sched.RunNow(c.Param("name")); err != nil {
		schedulerError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, types.MessageResponse{Message: types.MsgJobTriggered})
}

// SchedulerRemoveJob 根据 id 删除任务.
//
//	@Summary	删除定时任务
//	@Tags		管理
//	@Produce	json
//	@Param		id	path		string	true	"任务 ID"
//	@Success	200	{object}	types.MessageResponse
//	@Failure	400	{object}	types.ErrorResponse
//	@Failure	404	{object}	types.ErrorResponse
//	@Router		/api/admin/jobs/{id} [delete]
func SchedulerRemoveJob(c *gin.Context) {
	sched, ok := schedulerFrom(c)
	if !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, types.ErrorResponse{Error: "Invalid job ID"})
		return
	}

	if err := sched.RemoveJob(id); err != nil {
		schedulerError(c, err)
		return
	}

	c.JSON(http.StatusOK, types.MessageResponse{Message: types.MsgJobRemoved})
}
