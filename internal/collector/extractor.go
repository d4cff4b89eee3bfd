package collector

import (
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// DefaultSelectors 候选容器选择器，按优先级排列；单个页面内第一个命中的选择器胜出，不做合并
var DefaultSelectors = []string{
	".feed-post-body",
	".bastian-feed-item",
	".widget--info",
	"article",
	".block-item",
	".feed-media-wrapper",
	".post",
	".materia",
}

// fieldFunc 从一个容器节点中取出某个字段，取不到返回空串
type fieldFunc func(s *goquery.Selection) string

func textOf(selector string) fieldFunc {
	return func(s *goquery.Selection) string {
		return strings.TrimSpace(s.Find(selector).First().Text())
	}
}

func attrOf(selector, attr string) fieldFunc {
	return func(s *goquery.Selection) string {
		v, _ := s.Find(selector).First().Attr(attr)
		return strings.TrimSpace(v)
	}
}

// firstNonEmpty 依次尝试各个策略，返回第一个非空结果
func firstNonEmpty(s *goquery.Selection, chain []fieldFunc) string {
	for _, f := range chain {
		if v := f(s); v != "" {
			return v
		}
	}
	return ""
}

// 各字段的兜底链，顺序即优先级
var (
	titleChain = []fieldFunc{
		textOf("h2"),
		textOf("h3"),
		textOf(".feed-post-body-title"),
		textOf(".post__title"),
		textOf("a"),
		attrOf("a", "title"),
	}
	linkChain = []fieldFunc{
		attrOf("a", "href"),
	}
	descriptionChain = []fieldFunc{
		textOf("p"),
		textOf(".feed-post-body-resumo"),
		textOf(".post__excerpt"),
	}
	imageChain = []fieldFunc{
		attrOf("img", "src"),
		attrOf("img", "data-src"),
	}
	dateChain = []fieldFunc{
		textOf("time"),
		textOf(".feed-post-datetime"),
		textOf(".post__date"),
		attrOf("time", "datetime"),
	}
)

// Candidate 校验标题和链接之前的半成品
type Candidate struct {
	Title       string
	Link        string
	Description string
	Image       string
	Date        string
}

// Valid 标题和链接缺一不可
func (c Candidate) Valid() bool {
	return c.Title != "" && c.Link != ""
}

func extractCandidate(s *goquery.Selection) Candidate {
	return Candidate{
		Title:       firstNonEmpty(s, titleChain),
		Link:        firstNonEmpty(s, linkChain),
		Description: firstNonEmpty(s, descriptionChain),
		Image:       firstNonEmpty(s, imageChain),
		Date:        firstNonEmpty(s, dateChain),
	}
}

// Extractor 按选择器级联从页面中提取新闻条目
type Extractor struct {
	Selectors []string
	// Origin 站点地址（scheme://host），用于补全相对链接
	Origin string
	Now    func() time.Time
}

func NewExtractor(origin string) *Extractor {
	return &Extractor{
		Selectors: DefaultSelectors,
		Origin:    strings.TrimRight(origin, "/"),
		Now:       time.Now,
	}
}

// Extract 解析原始 HTML 后提取
func (e *Extractor) Extract(markup string) ([]NewsItem, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return e.ExtractDocument(doc), nil
}

// ExtractDocument 第一个至少命中一个容器的选择器胜出，其后的选择器不再尝试
func (e *Extractor) ExtractDocument(doc *goquery.Document) []NewsItem {
	for _, selector := range e.Selectors {
		containers := doc.Find(selector)
		if containers.Length() == 0 {
			continue
		}

		now := e.Now()
		results := make([]NewsItem, 0, containers.Length())
		containers.Each(func(_ int, s *goquery.Selection) {
			c := extractCandidate(s)
			if !c.Valid() {
				return
			}
			results = append(results, e.assemble(c, now))
		})
		return results
	}
	return nil
}

func (e *Extractor) assemble(c Candidate, now time.Time) NewsItem {
	date := c.Date
	if date == "" {
		date = now.UTC().Format(time.RFC3339)
	}
	return NewsItem{
		Title:       c.Title,
		Link:        NormalizeLink(c.Link, e.Origin),
		Description: c.Description,
		Image:       c.Image,
		Date:        date,
		ScrapedAt:   now,
	}
}

// NormalizeLink 绝对地址原样返回，相对地址补上站点 origin
func NormalizeLink(link, origin string) string {
	switch {
	case strings.HasPrefix(link, "http://"), strings.HasPrefix(link, "https://"):
		return link
	case strings.HasPrefix(link, "//"):
		return "https:" + link
	case strings.HasPrefix(link, "/"):
		return origin + link
	default:
		return origin + "/" + link
	}
}
