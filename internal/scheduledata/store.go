package scheduledata

import (
	"context"
	"log/slog"
	"sync"

	"github.com/mulescheduler/shift-grid/internal/apiclient"
	"github.com/mulescheduler/shift-grid/internal/domain"
	"golang.org/x/sync/errgroup"
)

// LoadErrorFallback 网络错误或未知错误时展示给用户的信息
const LoadErrorFallback = "Failed to load schedule data"

// Fetcher 构建索引所需的四类数据，*apiclient.Client 实现了该接口
type Fetcher interface {
	ListAssignments(ctx context.Context, filter domain.AssignmentFilter) ([]domain.Assignment, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
	ListLocations(ctx context.Context) ([]domain.Location, error)
	ListTimeSlots(ctx context.Context) ([]domain.TimeSlot, error)
}

// RequirementsFetcher 可选，用于计算缺人的班次
type RequirementsFetcher interface {
	ListShiftRequirements(ctx context.Context, weekStart string) ([]domain.ShiftRequirement, error)
}

// State Store 在某一时刻的一致视图
type State struct {
	Params  Params
	Loading bool
	Error   string
	Index   *Index
}

// Store 持有一个周视图的索引，每次加载成功后整体替换
//
// 每次加载都会分配一个递增的代号，只有代号等于最新代号的结果才会被提交，
// 因此较早发起但较晚返回的请求不会覆盖较新的数据。
type Store struct {
	fetcher          Fetcher
	withRequirements bool

	mu         sync.RWMutex
	generation uint64
	params     Params
	index      *Index
	loading    bool
	errMsg     string
}

type Option func(*Store)

// WithRequirements 加载时额外拉取班次需求；fetcher 未实现 RequirementsFetcher 时无效
func WithRequirements() Option {
	return func(s *Store) {
		s.withRequirements = true
	}
}

func NewStore(fetcher Fetcher, opts ...Option) *Store {
	s := &Store{
		fetcher: fetcher,
		index:   emptyIndex(Params{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load 并行拉取数据并重建索引
//
// 任意一个请求失败则整次加载失败，已有索引保持不变，错误信息可以通过 Err 获取；
// 被更新的加载取代的结果会被静默丢弃，此时返回 nil。
func (s *Store) Load(ctx context.Context, params Params) error {
	return s.load(ctx, func(Params) Params { return params })
}

// Refresh 以当前参数重新加载，用于每次变更之后
func (s *Store) Refresh(ctx context.Context) error {
	return s.load(ctx, func(current Params) Params { return current })
}

// load 参数的确定与代号的分配在同一把锁内完成，并发的 Load 不会被旧参数的刷新覆盖
func (s *Store) load(ctx context.Context, next func(Params) Params) error {
	s.mu.Lock()
	s.generation++
	gen := s.generation
	params := next(s.params)
	s.params = params
	s.loading = true
	s.errMsg = ""
	s.mu.Unlock()

	raw, err := s.fetch(ctx, params)

	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generation {
		slog.Debug("丢弃过期的加载结果", "week_start", params.WeekStart, "generation", gen, "latest", s.generation)
		return nil
	}

	s.loading = false

	if err != nil {
		s.errMsg = apiclient.Message(err, LoadErrorFallback)
		slog.Error("无法加载排班数据", "week_start", params.WeekStart, "error", err)
		return err
	}

	s.index = buildIndex(params, raw)
	return nil
}

func (s *Store) fetch(ctx context.Context, params Params) (*rawData, error) {
	raw := &rawData{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		raw.assignments, err = s.fetcher.ListAssignments(gctx, params.assignmentFilter())
		return err
	})
	g.Go(func() error {
		var err error
		raw.users, err = s.fetcher.ListUsers(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		raw.locations, err = s.fetcher.ListLocations(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		raw.timeSlots, err = s.fetcher.ListTimeSlots(gctx)
		return err
	})

	if rf, ok := s.fetcher.(RequirementsFetcher); ok && s.withRequirements {
		g.Go(func() error {
			requirements, err := rf.ListShiftRequirements(gctx, params.WeekStart)
			if err != nil {
				// 班次需求只用于提示缺人，失败不影响网格本身
				slog.Warn("无法获取班次需求", "week_start", params.WeekStart, "error", err)
				return nil
			}
			raw.requirements = nonNil(requirements)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return raw, nil
}

// Snapshot 当前索引，从不为 nil
func (s *Store) Snapshot() *Index {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index
}

func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return State{
		Params:  s.params,
		Loading: s.loading,
		Error:   s.errMsg,
		Index:   s.index,
	}
}

func (s *Store) Params() Params {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.params
}

func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Err 最近一次有效加载的错误信息，成功时为空字符串
func (s *Store) Err() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.errMsg
}

func (s *Store) AssignmentsForCell(dayOfWeek int32, timeSlotID, locationID int64) []domain.Assignment {
	return s.Snapshot().AssignmentsForCell(dayOfWeek, timeSlotID, locationID)
}

func (s *Store) UnassignedShifts() []domain.UnassignedShift {
	return s.Snapshot().UnassignedShifts()
}
