package queue

import (
	"context"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/vip-affiliates/internal/config"
	"github.com/vip-affiliates/internal/constants"

	"github.com/hibiken/asynq"
)

// DefaultQueue 默认队列名称
const DefaultQueue = constants.QueueDefault

const (
	vipChangeMaxRetry = 5
	vipChangeTimeout  = 30 * time.Second
	defaultWorkers    = 10
)

// Client 投递 VIP 变更任务的 asynq 客户端；未启用时 Enabled 返回 false，调用方自行同步处理
type Client struct {
	inner *asynq.Client
}

// NewClient 按队列配置创建客户端
func NewClient(cfg *config.QueueConfig) (*Client, error) {
	if cfg == nil || !cfg.Enabled {
		return &Client{}, nil
	}
	return &Client{inner: asynq.NewClient(RedisConnOpt(cfg))}, nil
}

// Enabled nil 客户端同样视为未启用
func (c *Client) Enabled() bool {
	return c != nil && c.inner != nil
}

// Close 关闭底层连接
func (c *Client) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.inner.Close()
}

// EnqueueVIPMetaChanged 投递 VIP 元数据变更任务，默认重试 5 次，单次处理 30 秒超时
func (c *Client) EnqueueVIPMetaChanged(ctx context.Context, payload AffiliateVIPMetaChangedPayload, opts ...asynq.Option) error {
	if !c.Enabled() {
		return nil
	}
	task, err := NewAffiliateVIPMetaChangedTask(payload)
	if err != nil {
		return err
	}
	base := []asynq.Option{
		asynq.Queue(DefaultQueue),
		asynq.MaxRetry(vipChangeMaxRetry),
		asynq.Timeout(vipChangeTimeout),
	}
	_, err = c.inner.EnqueueContext(ctx, task, append(base, opts...)...)
	return err
}

// ServerConfig worker 侧的 asynq 配置，未配置队列权重时只消费默认队列
func ServerConfig(cfg *config.QueueConfig) asynq.Config {
	serverCfg := asynq.Config{
		Concurrency: defaultWorkers,
		Queues:      map[string]int{DefaultQueue: 1},
	}
	if cfg == nil {
		return serverCfg
	}
	if cfg.Concurrency > 0 {
		serverCfg.Concurrency = cfg.Concurrency
	}
	if len(cfg.Queues) > 0 {
		serverCfg.Queues = cfg.Queues
	}
	return serverCfg
}

// RedisConnOpt 队列使用的 Redis 连接参数
func RedisConnOpt(cfg *config.QueueConfig) asynq.RedisClientOpt {
	opt := asynq.RedisClientOpt{Addr: "127.0.0.1:6379"}
	if cfg == nil {
		return opt
	}
	host := strings.TrimSpace(cfg.Host)
	if host == "" {
		host = "127.0.0.1"
	}
	port := cfg.Port
	if port <= 0 {
		port = 6379
	}
	opt.Addr = net.JoinHostPort(host, strconv.Itoa(port))
	opt.Password = cfg.Password
	opt.DB = cfg.DB
	return opt
}
