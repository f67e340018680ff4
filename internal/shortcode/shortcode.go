package shortcode

import (
	"context"
	"errors"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/vip-affiliates/internal/hooks"
)

// ErrInvalidTag 标签名不合法
var ErrInvalidTag = errors.New("shortcode: invalid tag")

var (
	tagNamePattern  = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
	openTagPattern  = regexp.MustCompile(`^\[(\[?)([A-Za-z0-9_-]+)((?:\s+[^\[\]]*?)?)\s*(/?)\]`)
	attributeLexeme = regexp.MustCompile(`([A-Za-z0-9_-]+)\s*=\s*"([^"]*)"|([A-Za-z0-9_-]+)\s*=\s*'([^']*)'|([A-Za-z0-9_-]+)\s*=\s*([^\s'"]+)|"([^"]*)"|(\S+)`)
)

// Call 一次短代码调用
type Call struct {
	Tag       string
	Attrs     map[string]string
	Content   string
	Enclosing bool
	Viewer    hooks.Viewer
}

// Handler 短代码处理函数；ok=false 表示输出为空
type Handler func(ctx context.Context, call Call) (output string, ok bool)

// Registry 短代码注册表
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]Handler
}

// NewRegistry 创建注册表
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]Handler)}
}

// Register 注册短代码，同名覆盖
func (r *Registry) Register(tag string, handler Handler) error {
	tag = strings.TrimSpace(tag)
	if !tagNamePattern.MatchString(tag) || handler == nil {
		return ErrInvalidTag
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.handlers == nil {
		r.handlers = make(map[string]Handler)
	}
	r.handlers[tag] = handler
	return nil
}

// Unregister 注销短代码
func (r *Registry) Unregister(tag string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.handlers, strings.TrimSpace(tag))
}

// Tags 已注册的标签
func (r *Registry) Tags() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tags := make([]string, 0, len(r.handlers))
	for tag := range r.handlers {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

func (r *Registry) lookup(tag string) (Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	handler, ok := r.handlers[tag]
	return handler, ok
}

// Expand 展开文本中已注册的短代码
// 支持 [tag attr="v"]内容[/tag]、[tag /] 与 [tag] 三种写法；
// [[tag]] 为转义写法，去掉外层方括号后原样输出；未注册的标签保持不变
func (r *Registry) Expand(ctx context.Context, viewer hooks.Viewer, text string) string {
	if !strings.Contains(text, "[") {
		return text
	}
	var out strings.Builder
	out.Grow(len(text))
	closers := newCloseIndex(text)
	if ctx == nil {
		ctx = context.Background()
	}
	if scopeFrom(ctx) == nil {
		ctx = context.WithValue(ctx, scopeKey{}, &scope{values: make(map[string]interface{})})
	}

	i := 0
	for i < len(text) {
		j := strings.IndexByte(text[i:], '[')
		if j < 0 {
			out.WriteString(text[i:])
			break
		}
		pos := i + j
		out.WriteString(text[i:pos])

		m := openTagPattern.FindStringSubmatchIndex(text[pos:])
		if m == nil {
			out.WriteByte('[')
			i = pos + 1
			continue
		}
		tag := text[pos+m[4] : pos+m[5]]
		handler, ok := r.lookup(tag)
		if !ok {
			out.WriteByte('[')
			i = pos + 1
			continue
		}

		escaped := m[3] > m[2]
		selfClosing := m[9] > m[8]
		openEnd := pos + m[1]
		closeTag := "[/" + tag + "]"

		if escaped {
			closeAt := -1
			if !selfClosing {
				closeAt = closers.find(closeTag, openEnd)
			}
			end := escapedEnd(text, openEnd, closeAt, closeTag, selfClosing)
			if end < 0 {
				out.WriteByte('[')
				i = pos + 1
				continue
			}
			// 去掉首尾各一个方括号
			out.WriteString(text[pos+1 : end-1])
			i = end
			continue
		}

		call := Call{
			Tag:    tag,
			Attrs:  parseAttributes(text[pos+m[6] : pos+m[7]]),
			Viewer: viewer,
		}
		next := openEnd
		if !selfClosing {
			if c := closers.find(closeTag, openEnd); c >= 0 {
				call.Content = text[openEnd:c]
				call.Enclosing = true
				next = c + len(closeTag)
			}
		}
		if output, ok := handler(ctx, call); ok {
			out.WriteString(output)
		}
		i = next
	}
	return out.String()
}

// escapedEnd 返回转义短代码结束位置（不含），不构成转义时返回 -1
// closeAt 为 openEnd 之后首个闭合标签的位置
func escapedEnd(text string, openEnd, closeAt int, closeTag string, selfClosing bool) int {
	if !selfClosing {
		if closeAt >= 0 {
			end := closeAt + len(closeTag)
			if end < len(text) && text[end] == ']' {
				return end + 1
			}
		}
	}
	if openEnd < len(text) && text[openEnd] == ']' {
		return openEnd + 1
	}
	return -1
}

// closeIndex 记录每个闭合标签最近一次查找结果
// Expand 的扫描位置单调递增，每段文本对同一标签至多扫描一次
type closeIndex struct {
	text string
	next map[string]closeHit
}

type closeHit struct {
	from int
	at   int
}

func newCloseIndex(text string) *closeIndex {
	return &closeIndex{text: text, next: make(map[string]closeHit)}
}

// find 返回 from 之后首个 closeTag 的位置，不存在时返回 -1
// 缓存项满足：at 为 hit.from 之后首个出现位置
func (x *closeIndex) find(closeTag string, from int) int {
	hit, ok := x.next[closeTag]
	switch {
	case !ok:
		hit = closeHit{from: from, at: indexFrom(x.text, closeTag, from)}
	case from < hit.from:
		// 只补查起点落在 [from, hit.from) 的位置
		end := hit.from + len(closeTag) - 1
		if end > len(x.text) {
			end = len(x.text)
		}
		if at := indexFrom(x.text[:end], closeTag, from); at >= 0 {
			hit.at = at
		}
		hit.from = from
	case hit.at >= 0 && hit.at < from:
		hit = closeHit{from: from, at: indexFrom(x.text, closeTag, from)}
	}
	x.next[closeTag] = hit
	return hit.at
}

func indexFrom(text, sub string, from int) int {
	if from > len(text) {
		return -1
	}
	at := strings.Index(text[from:], sub)
	if at < 0 {
		return -1
	}
	return at + from
}

type scopeKey struct{}

// scope 单次 Expand 内共享的缓存
type scope struct {
	mu     sync.Mutex
	values map[string]interface{}
}

func scopeFrom(ctx context.Context) *scope {
	if ctx == nil {
		return nil
	}
	s, _ := ctx.Value(scopeKey{}).(*scope)
	return s
}

// Memo 在同一次 Expand 中按 key 缓存 compute 的结果；不在展开过程中时直接计算
func Memo[T any](ctx context.Context, key string, compute func() T) T {
	s := scopeFrom(ctx)
	if s == nil {
		return compute()
	}
	s.mu.Lock()
	v, ok := s.values[key].(T)
	s.mu.Unlock()
	if ok {
		return v
	}
	v = compute()
	s.mu.Lock()
	s.values[key] = v
	s.mu.Unlock()
	return v
}

// parseAttributes 解析短代码属性；无名属性按位置以 "0"、"1" 等为键
func parseAttributes(raw string) map[string]string {
	attrs := make(map[string]string)
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return attrs
	}
	positional := 0
	for _, m := range attributeLexeme.FindAllStringSubmatch(raw, -1) {
		switch {
		case m[1] != "":
			attrs[strings.ToLower(m[1])] = m[2]
		case m[3] != "":
			attrs[strings.ToLower(m[3])] = m[4]
		case m[5] != "":
			attrs[strings.ToLower(m[5])] = m[6]
		case m[7] != "" || strings.HasPrefix(m[0], `"`):
			attrs[strconv.Itoa(positional)] = m[7]
			positional++
		case m[8] != "":
			attrs[strconv.Itoa(positional)] = m[8]
			positional++
		}
	}
	return attrs
}
