package cmd

import (
	"github.com/etnz/satsnav/docs"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// Complete answers shell completion requests for the snv command and exits.
// It does nothing when the program is not invoked for completion.
//
// Install with: COMP_INSTALL=1 snv
func Complete(name string) {
	global := make(map[string]complete.Predictor)
	global["config"] = predict.Files("*.yaml")
	global["entries"] = predict.Files("*.json*")
	global["entries-path"] = predict.Nothing
	global["overrides"] = predict.Files("*.json")
	global["base"] = predict.Set{"EUR", "USD", "CHF", "GBP"}
	global["policy"] = predict.Set{"lifo", "fifo"}
	global["v"] = predict.Nothing

	assets := predict.Set{"BTC", "ETH"}
	periods := predict.Set{"day", "week", "month", "quarter", "year"}

	sub := make(map[string]*complete.Command)
	sub["group"] = &complete.Command{}
	sub["balances"] = &complete.Command{Flags: map[string]complete.Predictor{"json": predict.Nothing, "asset": assets}}
	sub["changes"] = &complete.Command{}
	sub["fmt"] = &complete.Command{Flags: map[string]complete.Predictor{"o": predict.Files("*.jsonl")}}
	sub["verify"] = &complete.Command{}
	sub["recap"] = &complete.Command{Flags: map[string]complete.Predictor{"json": predict.Nothing}}
	sub["history"] = &complete.Command{Flags: map[string]complete.Predictor{"asset": assets, "period": periods, "raw": predict.Nothing}}
	sub["detail"] = &complete.Command{Flags: map[string]complete.Predictor{"id": predict.Something, "ref": predict.Something}}
	sub["graph"] = &complete.Command{Flags: map[string]complete.Predictor{"o": predict.Files("*.dot"), "changes": predict.Files("*.json"), "simplify": predict.Nothing}}
	sub["topic"] = &complete.Command{Args: predict.Set(docs.Topics())}

	cmd := &complete.Command{Flags: global, Sub: sub}
	cmd.Complete(name)
}
