package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/mulescheduler/shift-grid/internal/apiclient"
	"github.com/mulescheduler/shift-grid/internal/config"
	"github.com/mulescheduler/shift-grid/internal/domain"
	"github.com/mulescheduler/shift-grid/internal/utils"
)

func main() {
	var op int
	var n int
	var week string

	flag.IntVar(&op, "op", 0, "要执行的操作 (1: 插入随机助理, 2: 插入随机地点, 3: 插入标准时间段, 4: 插入随机排班)")
	flag.IntVar(&n, "n", 5, "要插入的记录数量")
	flag.StringVar(&week, "week", utils.WeekStartOf(time.Now()), "随机排班所在周的周一 (YYYY-MM-DD)")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// 读取配置文件
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("无法读取配置文件", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx := context.Background()
	client := apiclient.NewFromConfig(cfg)

	// 以管理员身份登录上游
	login, err := client.Login(ctx, cfg.Seed.AdminEmail, domain.RoleAdmin)
	if err != nil {
		logger.Error("无法以管理员身份登录", slog.String("error", err.Error()))
		os.Exit(1)
	}
	admin := client.WithToken(login.Token)

	// 执行操作
	switch op {
	case 0:
		slog.Error("未指定操作")
	case 1:
		if n <= 0 {
			slog.Error("请输入合法的助理数量")
		} else {
			cnt := n
			for i := 0; i < n; i++ {
				// 上游在首次登录时创建用户
				_, email := utils.GenerateRandomWorker(cfg.Seed.EmailDomain)
				if _, err := client.Login(ctx, email, domain.RoleUser); err != nil {
					slog.Error("无法创建助理", slog.String("email", email), slog.String("error", err.Error()))
					continue
				}

				cnt--
			}

			slog.Info("插入助理成功", slog.Int("count", n-cnt))
		}
	case 2:
		if n <= 0 {
			slog.Error("请输入合法的地点数量")
		} else {
			cnt := n
			for i := 0; i < n; i++ {
				if _, err := admin.CreateLocation(ctx, utils.GenerateRandomLocationName(), nil); err != nil {
					slog.Error("无法插入地点", slog.String("error", err.Error()))
					continue
				}

				cnt--
			}

			slog.Info("插入地点成功", slog.Int("count", n-cnt))
		}
	case 3:
		slots := utils.StandardWeekTimeSlots()
		cnt := 0
		for _, slot := range slots {
			if _, err := admin.CreateTimeSlot(ctx, slot); err != nil {
				slog.Error("无法插入时间段", slog.String("day", slot.DayName()), slog.String("start", slot.StartTime), slog.String("error", err.Error()))
				continue
			}
			cnt++
		}

		slog.Info("插入时间段成功", slog.Int("count", cnt))
	case 4:
		if err := utils.ValidateWeekStart(week); err != nil {
			slog.Error("周起始日期无效", slog.String("error", err.Error()))
			return
		}

		users, err := admin.ListUsers(ctx)
		if err != nil {
			slog.Error("无法获取用户", slog.String("error", err.Error()))
			return
		}
		locations, err := admin.ListLocations(ctx)
		if err != nil {
			slog.Error("无法获取地点", slog.String("error", err.Error()))
			return
		}
		slots, err := admin.ListTimeSlots(ctx)
		if err != nil {
			slog.Error("无法获取时间段", slog.String("error", err.Error()))
			return
		}
		settings, err := admin.GetSettings(ctx)
		if err != nil {
			slog.Error("无法获取设置", slog.String("error", err.Error()))
			return
		}

		workers := []domain.User{}
		for _, u := range users {
			if u.IsWorker() {
				workers = append(workers, u)
			}
		}
		activeLocations := []domain.Location{}
		for _, l := range locations {
			if l.IsActive {
				activeLocations = append(activeLocations, l)
			}
		}

		requests := utils.GenerateRandomAssignments(week, workers, activeLocations, slots, int(settings.MaxWorkersPerShift))

		created, conflicts := 0, 0
		for _, req := range requests {
			if _, err := admin.CreateAssignment(ctx, req); err != nil {
				// 人数超限和时间重叠是预期内的
				if apiclient.IsConflict(err) {
					conflicts++
					continue
				}
				slog.Error("无法插入排班", slog.String("error", err.Error()))
				continue
			}
			created++
		}

		slog.Info("插入排班成功", slog.Int("count", created), slog.Int("conflicts", conflicts))
	default:
		slog.Error("不支持的操作", slog.Int("op", op))
	}
}
