package fortune

// Candidate lists. Order matters: a list's index is part of the output for a
// given seed, so append new entries rather than reordering existing ones.
var (
	themes = []string{
		"整える日",
		"言い切る日",
		"選び直す日",
		"余白を作る日",
		"つながる日",
		"仕込む日",
		"ひらめく日",
		"ほどく日",
	}

	oneLines = []string{
		"背伸び不要。等身大のままで好転します。",
		"焦りは封印。丁寧に進めるほど味方が増えます。",
		"小さな幸運は“選び直し”の先にあります。",
		"今日は“言い切る”が鍵。迷いが消えます。",
		"余白を作るほど流れが整います。",
		"一歩引くと全体が見え、最短で進めます。",
		"気合より習慣。淡々と続けるほど強い日です。",
		"直感が冴える日。最初のひらめきを信じて。",
	}

	actions = []string{
		"今日の一手：睡眠・水分を最優先でコンディションを整える。",
		"今日の一手：予定を詰め込みすぎ注意。余白が運を呼びます。",
		"今日の一手：3分だけ片付ける。視界が整うと心も整います。",
		"今日の一手：LINEは短く温かく。結論→一言で好印象。",
		"今日の一手：深呼吸してから返事。言葉が柔らかくなります。",
	}

	cautions = []string{
		"返事を急ぐと誤解が生まれやすい日。一呼吸おいてから送って。",
		"予定の詰め込みすぎに注意。移動時間は多めに見積もって。",
		"比べグセが出やすい日。自分の基準に戻ると楽になります。",
		"なんとなくの出費が重なりやすい。レシートを一度見返して。",
		"夜更かしは運気の持ち越しを弱めます。早めに休んで。",
		"言葉の省略が誤解のもと。主語と結論をはっきりと。",
	}

	luckyColors = []string{"ホワイト", "ネイビー", "ラベンダー", "アイボリー", "ブラック", "ミント", "ボルドー", "シルバー"}
	luckyItems  = []string{"リップクリーム", "イヤホン", "ハンドクリーム", "ミニノート", "ミントガム", "白い靴下", "香水", "ボールペン"}

	// LuckyTimes is exported so callers can check membership.
	LuckyTimes = []string{"07:20", "09:10", "12:40", "15:20", "17:50", "19:05", "21:30", "23:00"}

	overallTexts = []string{
		"午前は準備、午後は実行の流れが吉。最初の一時間で段取りを決めると、一日が驚くほど軽く進みます。小さな頼まれごとが、あとで追い風になります。",
		"周りのペースに合わせすぎず、自分のリズムを守るほど運が整います。迷ったら今いちばん小さく始められることを選んで。夕方以降は直感が冴えます。",
		"新しい情報が入りやすい日。すぐに結論を出さず、一晩寝かせると最善の選択が見えてきます。身の回りを少し片付けると気持ちの切り替えもスムーズに。",
		"人との会話が鍵。短いやり取りの中にヒントが隠れています。頼られたら快く応じると信頼が積み上がり、思わぬチャンスにつながります。",
		"がんばりが形になりやすい日。続けてきたことを一歩前に進めて。完璧を目指すより、七割の完成度で出してみるのが吉です。",
		"ひと休みが運を呼ぶ日。予定に余白を作ると、偶然の出会いや嬉しい知らせが舞い込みます。無理に動くより、流れを観察して。",
	}

	loveTexts = []string{
		"言葉より態度が伝わります。小さな気遣いが最強。",
		"距離感を整えると関係が軽くなります。急がないで。",
		"相手の“本音”は行動に出ます。観察が吉。",
		"今日は甘え上手が勝ち。素直に頼ると進展。",
		"未読・既読に揺れない。あなたのペースを守って。",
	}

	workTexts = []string{
		"段取りが勝負。先にToDoを3つに絞ると速い。",
		"確認を一手間。ミスが減って信頼が積み上がる。",
		"今日は“話す”より“書く”が強い。メモで整理。",
		"小さな改善が大きな評価に。やり方を1つ変える。",
		"即レスより良レス。要点を短くまとめると刺さる。",
	}

	moneyTexts = []string{
		"買うより整える日。固定費の見直しで余裕が生まれます。",
		"迷ったら保留が正解。衝動買いは明日まで寝かせて。",
		"小さな投資が効く日。消耗品より“使い回せるもの”。",
		"出費は“未来の自分の時間”を買っているかで判断。",
		"ポイントは貯めどき。使うのは“効果が見えるもの”へ。",
	}
)

// OverallTexts returns a copy of the overall narrative candidates.
func OverallTexts() []string {
	return append([]string(nil), overallTexts...)
}
