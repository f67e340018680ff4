package i18n

import (
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// 支持的语言
const (
	LocaleZH = "zh-CN"
	LocaleTW = "zh-TW"
	LocaleEN = "en-US"

	// DefaultLocale 默认语言
	DefaultLocale = LocaleZH

	localeHeader = "X-Locale"
	localeQuery  = "lang"
)

var supportedTags = []language.Tag{
	language.MustParse(LocaleZH),
	language.MustParse(LocaleTW),
	language.MustParse(LocaleEN),
}

var (
	initOnce sync.Once
	builder  *catalog.Builder
	matcher  language.Matcher
	printers map[string]*message.Printer
)

func setup() {
	initOnce.Do(func() {
		builder = catalog.NewBuilder(catalog.Fallback(language.MustParse(DefaultLocale)))
		for locale, entries := range messages {
			tag := language.MustParse(locale)
			for key, msg := range entries {
				_ = builder.SetString(tag, key, msg)
			}
		}
		matcher = language.NewMatcher(supportedTags)
		printers = make(map[string]*message.Printer, len(supportedTags))
		for _, tag := range supportedTags {
			printers[tag.String()] = message.NewPrinter(tag, message.Catalog(builder))
		}
	})
}

// NormalizeLocale 将任意语言标识映射到支持的语言
func NormalizeLocale(raw string) string {
	setup()
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DefaultLocale
	}
	tags, _, err := language.ParseAcceptLanguage(raw)
	if err != nil || len(tags) == 0 {
		return DefaultLocale
	}
	_, index, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return DefaultLocale
	}
	return supportedTags[index].String()
}

// ResolveLocale 解析请求语言：查询参数 > X-Locale > Accept-Language
func ResolveLocale(c *gin.Context) string {
	if c == nil || c.Request == nil {
		return DefaultLocale
	}
	if value := strings.TrimSpace(c.Query(localeQuery)); value != "" {
		return NormalizeLocale(value)
	}
	if value := strings.TrimSpace(c.GetHeader(localeHeader)); value != "" {
		return NormalizeLocale(value)
	}
	return NormalizeLocale(c.GetHeader("Accept-Language"))
}

func printerFor(locale string) *message.Printer {
	setup()
	if p, ok := printers[locale]; ok {
		return p
	}
	return printers[NormalizeLocale(locale)]
}

// T 翻译消息键；缺失时回退默认语言，再缺失返回键本身
func T(locale, key string) string {
	return Sprintf(locale, key)
}

// Sprintf 翻译并格式化消息键
func Sprintf(locale, key string, args ...interface{}) string {
	if !hasMessage(key) {
		return key
	}
	return printerFor(locale).Sprintf(key, args...)
}

func hasMessage(key string) bool {
	for _, entries := range messages {
		if _, ok := entries[key]; ok {
			return true
		}
	}
	return false
}
