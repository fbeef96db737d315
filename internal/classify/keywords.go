package classify

import "strings"

// DefaultKeywords returns the compiled-in bilingual keyword lists.
// These favour recall over precision: presence of any single term is enough
// to tag an intent, and the orchestrator's precedence order sorts out
// queries that match several lists.
func DefaultKeywords() Keywords {
	return Keywords{
		Realtime: []string{
			// weather
			"天气", "weather", "温度", "temperature", "预报", "forecast",
			"穿衣", "外套", "下雨", "rain", "下雪", "snow", "风", "wind",
			// finance
			"股票", "股市", "stock", "股价", "涨跌", "汇率", "exchange rate",
			"比特币", "bitcoin", "基金", "大盘", "指数", "上证", "a股", "行情",
			// news and current events
			"新闻", "news", "最新", "latest", "头条", "breaking", "热点",
			"trending", "实时", "real-time",
			// time-anchored phrasing
			"今天", "today", "现在", "right now", "当前", "current", "目前",
			// traffic and travel
			"交通", "traffic", "路况", "航班", "flight", "地铁", "公交",
			// misc live data
			"营业时间", "opening hours", "票价", "排队",
		},
		Knowledge: []string{
			// research vocabulary
			"oam", "相位重建", "phase reconstruction", "少样本", "few-shot",
			"深度学习", "deep learning", "神经网络", "neural network",
			"扩散模型", "diffusion", "u-net", "tensorrt", "clip",
			"光学", "optical", "算法", "algorithm", "模型",
			// academic phrasing
			"论文", "paper", "研究", "research", "方法", "method",
			"理论", "theory", "实验", "experiment",
			// interview preparation
			"面试", "interview", "英伟达", "nvidia", "职位", "简历", "resume",
		},
		RememberCues: []string{
			"记住", "请记住", "记住我", "remember", "don't forget",
		},
		LikeCues: []string{
			"喜欢", "偏好", "最爱", "like", "prefer", "favorite", "favourite",
		},
		PreferenceQuestions: []string{
			"我喜欢什么", "我喜欢哪", "我爱什么", "我的偏好", "我的爱好",
			"我的最爱", "我偏好", "我倾向于",
			"what do i like", "what's my favorite", "what is my favorite",
			"what do i prefer",
		},
		PersonalMemory: []string{
			"我的", "my ", "进度", "progress", "研究方向", "是什么",
		},
	}
}

// PreferenceKeyHints maps topic vocabulary to the memory key a preference
// question is most likely asking about. Several hints may match one query;
// each candidate key is looked up individually.
func PreferenceKeyHints() map[string][]string {
	return map[string][]string{
		"color": {"颜色", "色", "color", "colour"},
		"food":  {"食物", "吃", "菜", "food", "eat", "dish"},
		"music": {"音乐", "歌", "music", "song"},
		"movie": {"电影", "片", "movie", "film"},
		"book":  {"书", "读", "book", "read"},
	}
}

// PreferenceKeys returns candidate memory keys for a preference question,
// in stable order. An empty result means no topic vocabulary matched and
// the caller should fall back to enumerating the whole preference category.
func PreferenceKeys(query string) []string {
	hints := PreferenceKeyHints()
	lower := strings.ToLower(query)
	// Stable iteration: fixed key order, not map order.
	order := []string{"color", "food", "music", "movie", "book"}

	var keys []string
	for _, key := range order {
		if containsAny(lower, lowerAll(hints[key])) {
			keys = append(keys, key)
		}
	}
	return keys
}
