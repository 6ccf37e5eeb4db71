package handler

import (
	"sync"
	"time"

	"github.com/mulescheduler/shift-grid/internal/apiclient"
	"github.com/mulescheduler/shift-grid/internal/scheduledata"
)

// viewRegistry 每个会话持有一个独立的排班视图
type viewRegistry struct {
	mu               sync.Mutex
	views            map[string]*sessionView
	idleTTL          time.Duration
	withRequirements bool
	now              func() time.Time
}

type sessionView struct {
	store    *scheduledata.Store
	lastUsed time.Time
}

func newViewRegistry(idleTTL time.Duration, withRequirements bool) *viewRegistry {
	return &viewRegistry{
		views:            make(map[string]*sessionView),
		idleTTL:          idleTTL,
		withRequirements: withRequirements,
		now:              time.Now,
	}
}

// get 返回会话对应的 Store，不存在时以该会话的上游客户端创建一个
func (v *viewRegistry) get(sessionID string, client *apiclient.Client) *scheduledata.Store {
	v.mu.Lock()
	defer v.mu.Unlock()

	now := v.now()
	v.prune(now)

	view, ok := v.views[sessionID]
	if !ok {
		var opts []scheduledata.Option
		if v.withRequirements {
			opts = append(opts, scheduledata.WithRequirements())
		}
		view = &sessionView{store: scheduledata.NewStore(client, opts...)}
		v.views[sessionID] = view
	}
	view.lastUsed = now
	return view.store
}

func (v *viewRegistry) drop(sessionID string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	delete(v.views, sessionID)
}

func (v *viewRegistry) len() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.views)
}

// prune 调用方需持有锁
func (v *viewRegistry) prune(now time.Time) {
	if v.idleTTL <= 0 {
		return
	}
	for id, view := range v.views {
		if now.Sub(view.lastUsed) > v.idleTTL {
			delete(v.views, id)
		}
	}
}
