package hooks

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// ErrEmptyCallbackName 回调名称为空
var ErrEmptyCallbackName = errors.New("hooks: callback name must not be empty")

// ErrNilCallback 回调函数为空
var ErrNilCallback = errors.New("hooks: callback must not be nil")

// Filter 过滤器回调：接收当前值并返回变换后的值
type Filter[T any] func(ctx context.Context, value T) (T, error)

// Action 动作回调：只处理事件，不改变载荷
type Action[T any] func(ctx context.Context, payload T) error

type entry[F any] struct {
	name     string
	priority int
	seq      uint64
	fn       F
}

// registry 按优先级排序的具名回调集合
// 优先级小的先执行；同优先级按注册顺序执行；同名注册覆盖回调但保留原注册顺序
type registry[F any] struct {
	mu      sync.RWMutex
	entries []entry[F]
	nextSeq uint64
}

func (r *registry[F]) add(name string, priority int, fn F) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyCallbackName
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.entries {
		if r.entries[i].name == name {
			r.entries[i].fn = fn
			r.entries[i].priority = priority
			r.sortLocked()
			return nil
		}
	}
	r.nextSeq++
	r.entries = append(r.entries, entry[F]{name: name, priority: priority, seq: r.nextSeq, fn: fn})
	r.sortLocked()
	return nil
}

func (r *registry[F]) sortLocked() {
	sort.SliceStable(r.entries, func(i, j int) bool {
		if r.entries[i].priority == r.entries[j].priority {
			return r.entries[i].seq < r.entries[j].seq
		}
		return r.entries[i].priority < r.entries[j].priority
	})
}

func (r *registry[F]) remove(name string) bool {
	name = strings.TrimSpace(name)
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.entries {
		if r.entries[i].name == name {
			r.entries = append(r.entries[:i], r.entries[i+1:]...)
			return true
		}
	}
	return false
}

func (r *registry[F]) snapshot() []entry[F] {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]entry[F], len(r.entries))
	copy(out, r.entries)
	return out
}

func (r *registry[F]) names() []string {
	entries := r.snapshot()
	names := make([]string, 0, len(entries))
	for _, item := range entries {
		names = append(names, item.name)
	}
	return names
}

// FilterChain 具名过滤器链，零值可用
type FilterChain[T any] struct {
	reg registry[Filter[T]]
}

// Add 注册过滤器
func (c *FilterChain[T]) Add(name string, priority int, fn Filter[T]) error {
	if fn == nil {
		return ErrNilCallback
	}
	return c.reg.add(name, priority, fn)
}

// Remove 移除过滤器
func (c *FilterChain[T]) Remove(name string) bool {
	return c.reg.remove(name)
}

// Names 按执行顺序返回已注册的过滤器名称
func (c *FilterChain[T]) Names() []string {
	return c.reg.names()
}

// Len 已注册过滤器数量
func (c *FilterChain[T]) Len() int {
	return len(c.reg.snapshot())
}

// Apply 依次执行过滤器；某个过滤器失败时返回失败前的值与错误
func (c *FilterChain[T]) Apply(ctx context.Context, value T) (T, error) {
	current := value
	for _, item := range c.reg.snapshot() {
		if err := ctx.Err(); err != nil {
			return current, err
		}
		next, err := item.fn(ctx, current)
		if err != nil {
			return current, fmt.Errorf("filter %s: %w", item.name, err)
		}
		current = next
	}
	return current, nil
}

// ActionChain 具名动作链，零值可用
type ActionChain[T any] struct {
	reg registry[Action[T]]
}

// Add 注册动作
func (c *ActionChain[T]) Add(name string, priority int, fn Action[T]) error {
	if fn == nil {
		return ErrNilCallback
	}
	return c.reg.add(name, priority, fn)
}

// Remove 移除动作
func (c *ActionChain[T]) Remove(name string) bool {
	return c.reg.remove(name)
}

// Names 按执行顺序返回已注册的动作名称
func (c *ActionChain[T]) Names() []string {
	return c.reg.names()
}

// Do 依次执行动作，遇到第一个错误即停止
func (c *ActionChain[T]) Do(ctx context.Context, payload T) error {
	for _, item := range c.reg.snapshot() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := item.fn(ctx, payload); err != nil {
			return fmt.Errorf("action %s: %w", item.name, err)
		}
	}
	return nil
}
