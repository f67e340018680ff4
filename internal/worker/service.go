package worker

import (
	"context"
	"errors"

	"github.com/vip-affiliates/internal/config"
	"github.com/vip-affiliates/internal/logger"
	"github.com/vip-affiliates/internal/queue"

	"github.com/hibiken/asynq"
)

var errQueueDisabled = errors.New("queue disabled")

// Service 将 asynq 服务端包装成 app.Service，消费 VIP 变更任务
type Service struct {
	server *asynq.Server
	mux    *asynq.ServeMux
}

// NewService 队列未启用时返回错误，调用方据此跳过 worker
func NewService(cfg *config.QueueConfig, consumer *Consumer) (*Service, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, errQueueDisabled
	}
	if consumer == nil {
		return nil, errors.New("consumer is nil")
	}
	serverCfg := queue.ServerConfig(cfg)
	serverCfg.Logger = logger.S()
	mux := asynq.NewServeMux()
	consumer.Register(mux)
	return &Service{
		server: asynq.NewServer(queue.RedisConnOpt(cfg), serverCfg),
		mux:    mux,
	}, nil
}

func (s *Service) Name() string {
	return "worker"
}

// Start 启动消费者后阻塞到 ctx 结束；信号由 app.Runner 统一处理，不使用 asynq 自带的 Run
func (s *Service) Start(ctx context.Context) error {
	if s == nil || s.server == nil {
		return errors.New("worker not initialized")
	}
	if err := s.server.Start(s.mux); err != nil {
		return err
	}
	<-ctx.Done()
	return nil
}

// Stop 等待进行中的任务结束，超时由 asynq ShutdownTimeout 控制
func (s *Service) Stop(context.Context) error {
	if s == nil || s.server == nil {
		return nil
	}
	s.server.Shutdown()
	return nil
}
