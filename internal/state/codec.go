package state

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/Veraticus/spend-squad/internal/common"
	"github.com/Veraticus/spend-squad/internal/model"
)

// Encode serializes the whole state as one JSON blob.
func Encode(st model.BudgetState) ([]byte, error) {
	normalize(&st)
	data, err := json.Marshal(st)
	if err != nil {
		return nil, fmt.Errorf("failed to encode budget state: %w", err)
	}
	return data, nil
}

// Decode restores a state written by Encode. Absent fields keep their zero
// values; a quote outside env.Quotes is replaced with a random member.
func Decode(data []byte, env Env) (model.BudgetState, error) {
	var st model.BudgetState
	if err := json.Unmarshal(data, &st); err != nil {
		return model.BudgetState{}, fmt.Errorf("%w: %v", common.ErrCorruptState, err)
	}
	normalize(&st)

	if len(env.Quotes) > 0 && !model.IsQuote(env.Quotes, st.CurrentQuote) {
		slog.Warn("Stored quote is not in the quote set, picking a new one",
			"stored_quote", st.CurrentQuote)
		st.CurrentQuote = pickQuote(env.Quotes, env.Rand, "")
	}

	return st, nil
}

func normalize(st *model.BudgetState) {
	if st.Categories == nil {
		st.Categories = []model.Category{}
	}
	if st.Expenses == nil {
		st.Expenses = []model.Expense{}
	}
}
