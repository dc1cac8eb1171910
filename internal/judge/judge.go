// Package judge asks an LLM whether a verified problem satisfies the
// instruction it was generated from, and parses the free-form reply into
// a structured verdict.
package judge

import (
	"context"
	"fmt"
	"strings"

	"github.com/rkoshiba/janmon/internal/scoring"
)

// Judge evaluates instruction compliance for a scored problem. The returned
// string is the raw model reply; callers parse it with ParseVerdict.
type Judge interface {
	Judge(ctx context.Context, instruction string, result *scoring.Result) (string, error)
}

const compliancePromptTemplate = `生成された麻雀問題が指示に従っているかを評価してください。

指示: %s

実際の結果:
- 計算された点数: %d
- 翻数: %d
- 符数: %d
- 役: [%s]

判定基準:
指示に明記されている条件のみをチェックしてください。指示に含まれていない条件（点数、翻数、符数など）は判定に含めないでください。

例：
- 指示が「難易度hardで、暗刻が三つある問題を作成してください」の場合
  → 難易度がhardであること、暗刻が三つあること（役リストに三暗刻があるか）のみをチェック
  → 点数や翻数、符数は指示に含まれていないため無視する

- 指示が「タンヤオと三色同順で5200点の問題を作成してください」の場合
  → 役リストにタンヤオと三色同順が含まれているか、点数が5200点であることをチェック
  → 翻数や符数は指示に含まれていないため無視する

指示に明記されている全ての条件が満たされている場合のみ「Yes」、一つでも満たされていない場合は「No」と回答してください。
理由も簡潔に説明してください。

回答形式: Yes/No
理由: （簡潔な説明）`

// BuildPrompt renders the compliance judging prompt for an instruction and
// its calculated scoring result.
func BuildPrompt(instruction string, result *scoring.Result) string {
	return fmt.Sprintf(compliancePromptTemplate,
		instruction, result.Score, result.Han, result.Fu, strings.Join(result.Yaku, ", "))
}
