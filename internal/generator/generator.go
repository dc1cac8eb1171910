// Package generator produces natural-language mahjong scoring questions
// from free-text instructions via LLM backends.
package generator

import (
	"context"
	"fmt"
)

// Generator turns an instruction into one question text. Implementations
// must be safe for concurrent use; every call is independent.
type Generator interface {
	Name() string
	Generate(ctx context.Context, instruction string) (string, error)
	IsAvailable(ctx context.Context) error
}

// VariationInstruction is used in place of an empty instruction so that
// sibling candidates do not collapse onto the same hand. i is the 1-based
// candidate index.
func VariationInstruction(i int) string {
	return fmt.Sprintf("バリエーション%dとして前の問題とは異なる牌の組み合わせと役を使用した問題を作成してください。", i)
}

// questionPrompt asks for a self-contained Japanese scoring question: full
// round context, every tile listed explicitly, and a winning tile that is
// already in the hand.
const questionPrompt = `あなたは麻雀の点数計算問題の作問者です。以下の指示に従って問題を一つ作成してください。

指示: %s

問題文の要件:
- 場風・本場・自風・ドラ表示牌・和了方法（ツモ/ロン）を明記すること
- 手牌は和了牌を含めて14枚以上の牌を「1m, 2m, ...」の形式で全て列挙すること（カンがある場合はその分枚数が増えます）
- 和了牌は必ず手牌に既に存在する牌から選ぶこと
- 鳴き（ポン・チー・カン）がある場合はどの牌を鳴いたか明記すること
- 最後に「最終的な得点を計算してください。」で締めること

問題文のみを出力してください。説明や構成の解説は不要です。`

// BuildPrompt renders the question-generation prompt for an instruction.
func BuildPrompt(instruction string) string {
	return fmt.Sprintf(questionPrompt, instruction)
}
