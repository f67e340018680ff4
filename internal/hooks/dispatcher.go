package hooks

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// Dispatcher 进程内事件分发器
// 内容过滤器按 hook 名称懒创建，其余扩展点为固定类型的链
type Dispatcher struct {
	mu      sync.RWMutex
	content map[string]*FilterChain[string]

	SettingsTabs        FilterChain[[]SettingsTab]
	Settings            FilterChain[SettingsSchema]
	AffiliateFormFields FilterChain[AffiliateForm]
	AffiliateInserted   ActionChain[AffiliateEvent]
	AffiliateUpdated    ActionChain[AffiliateEvent]
}

// NewDispatcher 创建分发器
func NewDispatcher() *Dispatcher {
	return &Dispatcher{content: make(map[string]*FilterChain[string])}
}

// ContentFilter 获取（必要时创建）指定名称的内容过滤器链
func (d *Dispatcher) ContentFilter(hook string) *FilterChain[string] {
	hook = strings.TrimSpace(hook)
	d.mu.RLock()
	chain, ok := d.content[hook]
	d.mu.RUnlock()
	if ok {
		return chain
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.content == nil {
		d.content = make(map[string]*FilterChain[string])
	}
	if chain, ok = d.content[hook]; ok {
		return chain
	}
	chain = &FilterChain[string]{}
	d.content[hook] = chain
	return chain
}

// AddContentFilter 注册内容过滤器
func (d *Dispatcher) AddContentFilter(hook, name string, priority int, fn Filter[string]) error {
	return d.ContentFilter(hook).Add(name, priority, fn)
}

// ApplyContentFilter 执行内容过滤器；未注册任何过滤器时原样返回
func (d *Dispatcher) ApplyContentFilter(ctx context.Context, hook, content string) (string, error) {
	d.mu.RLock()
	chain, ok := d.content[strings.TrimSpace(hook)]
	d.mu.RUnlock()
	if !ok {
		return content, nil
	}
	return chain.Apply(ctx, content)
}

// ContentHooks 返回已创建的内容过滤器名称
func (d *Dispatcher) ContentHooks() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	hooks := make([]string, 0, len(d.content))
	for hook := range d.content {
		hooks = append(hooks, hook)
	}
	sort.Strings(hooks)
	return hooks
}
