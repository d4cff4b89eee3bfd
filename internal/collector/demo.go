package collector

import "time"

// DemoSource 演示数据的来源标记
const DemoSource = "demo"

// MockNews 抓取流程结构性失败时使用的三条固定示例，发布时间依次相差一小时
func MockNews(now time.Time, baseURL string) []NewsItem {
	ts := func(d time.Duration) string {
		return now.Add(-d).UTC().Format(time.RFC3339)
	}

	return []NewsItem{
		{
			Title:       "BBB 25: Confira as últimas notícias do reality",
			Link:        baseURL,
			Description: "Acompanhe tudo sobre o Big Brother Brasil 25",
			Image:       "https://s2-gshow.glbimg.com/bbb.jpg",
			Date:        ts(0),
			Source:      DemoSource,
			ScrapedAt:   now,
		},
		{
			Title:       "Paredão BBB 25: Veja quem está na berlinda esta semana",
			Link:        baseURL,
			Description: "Três brothers disputam a preferência do público",
			Image:       "https://s2-gshow.glbimg.com/paredao.jpg",
			Date:        ts(time.Hour),
			Source:      DemoSource,
			ScrapedAt:   now,
		},
		{
			Title:       "Prova do Líder BBB 25: Saiba quem venceu a disputa",
			Link:        baseURL,
			Description: "Novo líder foi definido na noite desta quinta-feira",
			Image:       "https://s2-gshow.glbimg.com/lider.jpg",
			Date:        ts(2 * time.Hour),
			Source:      DemoSource,
			ScrapedAt:   now,
		},
	}
}
