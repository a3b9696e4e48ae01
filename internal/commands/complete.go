package commands

import (
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"

	"bolsillo/internal/core"
	"bolsillo/internal/dashboard"
)

// Completion describes the command line for shell completion. Ids are not
// predicted as completing them would require opening the store.
func Completion() *complete.Command {
	priorities := predict.Set{string(core.Low), string(core.Medium), string(core.High)}
	filters := make(predict.Set, len(dashboard.Filters))
	for i, f := range dashboard.Filters {
		filters[i] = string(f)
	}

	return &complete.Command{
		Flags: map[string]complete.Predictor{
			"plain": predict.Nothing,
		},
		Sub: map[string]*complete.Command{
			"home":   {},
			"salary": {Args: predict.Something},
			"expense": {Sub: map[string]*complete.Command{
				"add": {Flags: map[string]complete.Predictor{
					"name":          predict.Something,
					"amount":        predict.Something,
					"rate":          predict.Something,
					"discretionary": predict.Nothing,
				}},
				"rm":      {Args: predict.Something},
				"ls":      {},
				"summary": {},
			}},
			"month": {Sub: map[string]*complete.Command{
				"close": {Flags: map[string]complete.Predictor{
					"m":   predict.Something,
					"yes": predict.Nothing,
				}},
				"history": {Args: predict.Something},
			}},
			"todo": {Sub: map[string]*complete.Command{
				"add":    {Flags: map[string]complete.Predictor{"p": priorities}},
				"toggle": {Args: predict.Something},
				"rm":     {Args: predict.Something},
				"ls":     {Flags: map[string]complete.Predictor{"filter": filters}},
			}},
			"rate": {Sub: map[string]*complete.Command{
				"show": {},
				"watch": {Flags: map[string]complete.Predictor{
					"interval": predict.Something,
					"n":        predict.Something,
				}},
			}},
			"muffins":  {Flags: map[string]complete.Predictor{"n": predict.Something}},
			"theme":    {Args: predict.Set{"toggle", string(core.Mati), string(core.Sofi)}},
			"help":     {},
			"flags":    {},
			"commands": {},
		},
	}
}
