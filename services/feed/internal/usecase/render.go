package usecase

import (
	"encoding/xml"
	"fmt"
	"html"
	"net/url"
	"strings"
	"time"

	"audslp/services/feed/internal/entity"

	"github.com/microcosm-cc/bluemonday"
)

const (
	rfc1123GMT = "Mon, 02 Jan 2006 15:04:05 GMT"
	isoMillis  = "2006-01-02T15:04:05.000Z07:00"

	channelTagline     = "聽力學與語言治療期刊推播"
	channelDescription = "專業的聽力學與語言治療期刊推播網站，提供最新的學術研究、AI 智能推薦、跨期刊文章搜尋和研究趨勢追蹤。涵蓋聽力學、語言治療、溝通障礙等專業領域。"
)

var channelCategories = []string{"醫學研究", "聽力學", "語言治療", "學術期刊"}

// Site describes the public site the documents point to.
type Site struct {
	BaseURL   string
	MirrorURL string
	Name      string
}

func (s Site) articleURL(id int64) string {
	return fmt.Sprintf("%s/article/%d", s.BaseURL, id)
}

func (s Site) host() string {
	if u, err := url.Parse(s.BaseURL); err == nil && u.Host != "" {
		return u.Host
	}
	return s.BaseURL
}

type cdata struct {
	Text string `xml:",cdata"`
}

// text wraps s for a CDATA section. encoding/xml does not check CDATA
// content, so characters XML 1.0 forbids are dropped here.
func text(s string) cdata {
	return cdata{Text: strings.Map(xmlChar, s)}
}

func xmlChar(r rune) rune {
	switch {
	case r == '\t', r == '\n', r == '\r':
		return r
	case r >= 0x20 && r <= 0xD7FF,
		r >= 0xE000 && r <= 0xFFFD,
		r >= 0x10000 && r <= 0x10FFFF:
		return r
	}
	return -1
}

type rssDocument struct {
	XMLName      xml.Name   `xml:"rss"`
	Version      string     `xml:"version,attr"`
	XmlnsContent string     `xml:"xmlns:content,attr"`
	XmlnsAtom    string     `xml:"xmlns:atom,attr"`
	Channel      rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title          string    `xml:"title"`
	Description    string    `xml:"description"`
	Link           string    `xml:"link"`
	AtomLink       atomLink  `xml:"atom:link"`
	Language       string    `xml:"language"`
	Categories     []string  `xml:"category"`
	Copyright      string    `xml:"copyright"`
	ManagingEditor string    `xml:"managingEditor"`
	WebMaster      string    `xml:"webMaster"`
	LastBuildDate  string    `xml:"lastBuildDate"`
	Generator      string    `xml:"generator"`
	Image          rssImage  `xml:"image"`
	TTL            int       `xml:"ttl"`
	Items          []rssItem `xml:"item"`
}

type atomLink struct {
	Href string `xml:"href,attr"`
	Rel  string `xml:"rel,attr"`
	Type string `xml:"type,attr"`
}

type rssImage struct {
	URL    string `xml:"url"`
	Title  string `xml:"title"`
	Link   string `xml:"link"`
	Width  int    `xml:"width"`
	Height int    `xml:"height"`
}

type rssItem struct {
	Title       cdata     `xml:"title"`
	Description cdata     `xml:"description"`
	Link        string    `xml:"link"`
	GUID        rssGUID   `xml:"guid"`
	PubDate     string    `xml:"pubDate"`
	Source      rssSource `xml:"source"`
	Categories  []string  `xml:"category"`
	Content     cdata     `xml:"content:encoded"`
}

type rssGUID struct {
	IsPermaLink string `xml:"isPermaLink,attr"`
	Value       string `xml:",chardata"`
}

type rssSource struct {
	URL   string `xml:"url,attr"`
	Value string `xml:",chardata"`
}

type urlSet struct {
	XMLName    xml.Name     `xml:"urlset"`
	Xmlns      string       `xml:"xmlns,attr"`
	XmlnsNews  string       `xml:"xmlns:news,attr,omitempty"`
	XmlnsXHTML string       `xml:"xmlns:xhtml,attr,omitempty"`
	XmlnsImage string       `xml:"xmlns:image,attr,omitempty"`
	URLs       []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc        string       `xml:"loc"`
	LastMod    string       `xml:"lastmod"`
	ChangeFreq string       `xml:"changefreq"`
	Priority   string       `xml:"priority"`
	News       *sitemapNews `xml:"news:news,omitempty"`
}

type sitemapNews struct {
	Publication     newsPublication `xml:"news:publication"`
	PublicationDate string          `xml:"news:publication_date"`
	Title           cdata           `xml:"news:title"`
}

type newsPublication struct {
	Name     string `xml:"news:name"`
	Language string `xml:"news:language"`
}

func encodeXML(v interface{}) ([]byte, error) {
	body, err := xml.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), body...), nil
}

// contentPolicy sanitizes the HTML block embedded in content:encoded. Article
// summaries come from machine translation and are untrusted.
func contentPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.RequireNoFollowOnLinks(true)
	p.AddTargetBlankToFullyQualifiedLinks(true)
	return p
}

func firstNonEmpty(values ...*string) string {
	for _, v := range values {
		if v != nil && strings.TrimSpace(*v) != "" {
			return *v
		}
	}
	return ""
}

func orDefault(v *string, def string) string {
	if s := firstNonEmpty(v); s != "" {
		return s
	}
	return def
}

func renderRSS(site Site, articles []entity.Article, now time.Time, policy *bluemonday.Policy) ([]byte, error) {
	doc := rssDocument{
		Version:      "2.0",
		XmlnsContent: "http://purl.org/rss/1.0/modules/content/",
		XmlnsAtom:    "http://www.w3.org/2005/Atom",
		Channel: rssChannel{
			Title:          fmt.Sprintf("%s | %s", site.Name, channelTagline),
			Description:    channelDescription,
			Link:           site.BaseURL,
			AtomLink:       atomLink{Href: site.BaseURL + "/" + entity.DocumentRSS, Rel: "self", Type: "application/rss+xml"},
			Language:       "zh-TW",
			Categories:     channelCategories,
			Copyright:      fmt.Sprintf("© %d %s. All rights reserved.", now.Year(), site.Name),
			ManagingEditor: fmt.Sprintf("contact@%s (%s)", site.host(), site.Name),
			WebMaster:      fmt.Sprintf("webmaster@%s (%s技術團隊)", site.host(), site.Name),
			LastBuildDate:  now.UTC().Format(rfc1123GMT),
			Generator:      site.Name + " RSS Generator",
			Image:          rssImage{URL: site.BaseURL + "/favicon.ico", Title: site.Name, Link: site.BaseURL, Width: 32, Height: 32},
			TTL:            60,
			Items:          make([]rssItem, 0, len(articles)),
		},
	}

	for _, a := range articles {
		doc.Channel.Items = append(doc.Channel.Items, rssItemFor(site, a, policy))
	}

	return encodeXML(doc)
}

func rssItemFor(site Site, a entity.Article, policy *bluemonday.Policy) rssItem {
	title := firstNonEmpty(a.TitleTranslated, a.Title)
	if title == "" {
		title = fmt.Sprintf("文章 %d", a.ID)
	}
	description := firstNonEmpty(a.TLDR, a.EnglishTLDR)
	if description == "" {
		description = "暫無摘要"
	}
	link := orDefault(a.Link, site.articleURL(a.ID))

	categories := []string{orDefault(a.Source, "期刊文章")}
	if pmid := firstNonEmpty(a.PMID); pmid != "" {
		categories = append(categories, "PMID:"+pmid)
	}
	if doi := firstNonEmpty(a.DOI); doi != "" {
		categories = append(categories, "DOI:"+doi)
	}

	return rssItem{
		Title:       text(title),
		Description: text(description),
		Link:        link,
		GUID:        rssGUID{IsPermaLink: "false", Value: site.articleURL(a.ID)},
		PubDate:     a.PublishedAt().UTC().Format(rfc1123GMT),
		Source:      rssSource{URL: site.BaseURL + "/" + entity.DocumentRSS, Value: site.Name},
		Categories:  categories,
		Content:     text(policy.Sanitize(contentHTML(site, a, link))),
	}
}

func contentHTML(site Site, a entity.Article, link string) string {
	esc := html.EscapeString
	var b strings.Builder

	b.WriteString("<h3>中文摘要</h3>")
	fmt.Fprintf(&b, "<p>%s</p>", esc(orDefault(a.TLDR, "暫無中文摘要")))
	if en := firstNonEmpty(a.EnglishTLDR); en != "" {
		fmt.Fprintf(&b, "<h3>English Summary</h3><p>%s</p>", esc(en))
	}
	b.WriteString("<hr>")
	fmt.Fprintf(&b, "<p><strong>期刊來源:</strong> %s</p>", esc(orDefault(a.Source, "未知")))
	if pmid := firstNonEmpty(a.PMID); pmid != "" {
		fmt.Fprintf(&b, "<p><strong>PMID:</strong> %s</p>", esc(pmid))
	}
	if doi := firstNonEmpty(a.DOI); doi != "" {
		fmt.Fprintf(&b, `<p><strong>DOI:</strong> <a href="https://doi.org/%s">%s</a></p>`, esc(doi), esc(doi))
	}
	fmt.Fprintf(&b, `<p><strong>閱讀原文:</strong> <a href="%s">點擊查看</a></p>`, esc(link))
	fmt.Fprintf(&b, `<p><strong>在網站上查看:</strong> <a href="%s">查看詳情和相關推薦</a></p>`, esc(site.articleURL(a.ID)))

	return b.String()
}

func staticURLs(site Site, lastmod string) []sitemapURL {
	page := func(path, freq, priority string) sitemapURL {
		return sitemapURL{Loc: site.BaseURL + path, LastMod: lastmod, ChangeFreq: freq, Priority: priority}
	}
	return []sitemapURL{
		page("", "daily", "1.0"),
		page("/?search=audiology", "weekly", "0.8"),
		page("/?search=speech", "weekly", "0.8"),
		page("/?source="+url.PathEscape("Journal of Speech, Language, and Hearing Research"), "weekly", "0.7"),
		page("/?source="+url.PathEscape("International Journal of Audiology"), "weekly", "0.7"),
	}
}

func renderSitemap(site Site, articles []entity.Article, now time.Time) ([]byte, error) {
	current := now.UTC().Format(isoMillis)
	set := urlSet{
		Xmlns:      "http://www.sitemaps.org/schemas/sitemap/0.9",
		XmlnsNews:  "http://www.google.com/schemas/sitemap-news/0.9",
		XmlnsXHTML: "http://www.w3.org/1999/xhtml",
		XmlnsImage: "http://www.google.com/schemas/sitemap-image/1.1",
		URLs:       staticURLs(site, current),
	}

	for _, a := range articles {
		date := a.PublishedAt().UTC().Format(isoMillis)
		title := firstNonEmpty(a.TitleTranslated)
		if title == "" {
			title = fmt.Sprintf("文章 %d", a.ID)
		}
		set.URLs = append(set.URLs, sitemapURL{
			Loc:        site.articleURL(a.ID),
			LastMod:    date,
			ChangeFreq: "monthly",
			Priority:   "0.6",
			News: &sitemapNews{
				Publication:     newsPublication{Name: site.Name, Language: "zh-tw"},
				PublicationDate: date,
				Title:           text(title),
			},
		})
	}

	return encodeXML(set)
}

// renderBasicSitemap lists only the home page. It is served when articles
// cannot be loaded.
func renderBasicSitemap(site Site, now time.Time) []byte {
	set := urlSet{
		Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  staticURLs(site, now.UTC().Format(isoMillis))[:1],
	}
	body, err := encodeXML(set)
	if err != nil {
		// Only string fields; marshalling cannot fail.
		panic(err)
	}
	return body
}

func renderRobots(site Site) []byte {
	sitemaps := "# 主要 sitemap\nSitemap: " + site.BaseURL + "/" + entity.DocumentSitemap + "\n"
	if site.MirrorURL != "" {
		sitemaps += "\n# 備用域名 sitemap\nSitemap: " + site.MirrorURL + "/" + entity.DocumentSitemap + "\n"
	}

	return []byte(`User-agent: *
Allow: /

` + sitemaps + `
# 爬蟲延遲設定
Crawl-delay: 1

# 特殊規則
User-agent: GPTBot
Allow: /

User-agent: Google-Extended
Allow: /

User-agent: CCBot
Allow: /

# 禁止存取的路徑
Disallow: /api/
Disallow: /_next/
Disallow: /admin/
Disallow: /private/

# 搜尋引擎特定設定
User-agent: Googlebot
Allow: /
Crawl-delay: 0.5

User-agent: Bingbot
Allow: /
Crawl-delay: 1

User-agent: Slurp
Allow: /
Crawl-delay: 2
`)
}
