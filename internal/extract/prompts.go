package extract

import "fmt"

// statementPrompt asks the model to classify the image and, when it is a
// multi-line statement, extract every line.
const statementPrompt = `この画像を分析して、以下を判定してください：

1. これがクレジットカード明細（複数の取引が記載された明細書）かどうか
2. 明細の場合、全ての取引を抽出：
   - 日付
   - 店名/支払先
   - 金額
   - カテゴリ（食費、交通費、日用品、娯楽、医療、住居、その他）

明細でない場合（単一のレシート）は、is_batch=false を返し、transactions配列は空にしてください。
金額は日本円（JPY）で抽出してください。`

// receiptPrompt is the single-receipt fallback.
const receiptPrompt = `このレシート画像から以下の情報を抽出してください：
1. 合計金額（税込）
2. 店名または支払先
3. 日付（あれば）
4. 適切なカテゴリの推測（食費、交通費、日用品、娯楽、医療、住居、その他のいずれか）

日本語で書かれたレシートです。金額は日本円（JPY）で抽出してください。`

// emailPrompt builds the extraction prompt for a forwarded notification
// email.
func emailPrompt(subject, body string) string {
	if subject == "" {
		subject = "なし"
	}
	return fmt.Sprintf(`以下のメール通知から取引情報を抽出してください。
これは銀行、クレジットカード、または決済サービス（PayPayなど）からの通知メールです。

件名: %s

本文:
%s

金額、取引種別（収入/支出）、店名または取引内容、日付を抽出してください。
金額は日本円（JPY）で、数値のみ抽出してください。`, subject, body)
}
