package sentiment

// Keywords are the tier lists matched against normalised comment text
type Keywords struct {
	StrongPositive     []string
	Positive           []string
	StrongNegative     []string
	Negative           []string
	NeutralExpressions []string
}

// DefaultKeywords returns the Japanese and English tiers tuned for YouTube comments
func DefaultKeywords() Keywords {
	return Keywords{
		StrongPositive: []string{
			"最高", "素晴らしい", "神", "感動", "大好き", "愛してる", "すげー", "すげえ", "やばい", "ヤバい",
			"amazing", "awesome", "love", "perfect", "完璧", "天才", "かっこいい", "イケメン", "美しい",
		},
		Positive: []string{
			"好き", "いい", "良い", "すごい", "面白い", "楽しい", "ありがとう", "可愛い", "かわいい",
			"素敵", "感謝", "嬉しい", "うれしい", "笑", "ナイス", "nice", "good", "great", "cool",
		},
		StrongNegative: []string{
			"最悪", "死ね", "クソ", "くそ", "ゴミ", "きもい", "うざい", "ムカつく", "イライラ",
			"hate", "terrible", "awful", "worst", "stupid", "大嫌い", "ひどい", "腹立つ",
		},
		Negative: []string{
			"嫌い", "悪い", "つまらない", "退屈", "残念", "がっかり", "だめ", "ダメ", "悲しい",
			"bad", "boring", "disappointed",
		},
		NeutralExpressions: []string{
			"思う", "思った", "感じ", "感じる", "考え", "見る", "聞く", "言う", "話", "時間",
			"今日", "明日", "昨日", "最近", "前", "後", "中", "上", "下", "右", "左",
		},
	}
}
