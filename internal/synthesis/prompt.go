package synthesis

import (
	"encoding/json"
	"fmt"
)

// SystemPrompt frames the model as a cautious pharmacology reviewer.
const SystemPrompt = "You are a clinical pharmacology specialist reviewing drug combinations for medication safety. " +
	"Base every statement on the supplied data, be conservative, and make clear when professional consultation is needed."

const userTemplate = `Review the following data for this drug combination and write a plain summary followed by a detailed analysis.

DATA
1. Drug normalization (RxNorm): %s
2. Interactions (DDInter): %s
3. Adverse event reports (openFDA FAERS): %s

FORMAT

## BOTTOM LINE
- Risk level: one of SAFE, LOW RISK, MODERATE RISK, HIGH RISK, AVOID. Derive it from the interaction severities above. Never assign a level the interaction data does not support.
- What it means: plain language, no medical terms.
- What to do: concrete advice grounded in the findings.
- Important: a warning specific to this combination.

## DETAILED ANALYSIS
1. Drug summary
2. Interaction analysis
3. Real-world data
4. Clinical recommendations
5. Limitations

RULES
- Keep the bottom line under 50 words.
- Medical terminology is fine in the detailed analysis.
- Address every pairwise interaction, and the cumulative risk when three or more drugs are involved.
- Cite actual findings (for example "major bleeding risk reported") instead of generic cautions.
- Adverse event counts beyond the analyzed sample are totals only. Serious counts and reactions describe the sample.
- Unresolved drugs and unavailable sources must be called out as gaps, not treated as safe.`

// BuildPrompt embeds the three result documents verbatim in the user prompt.
func BuildPrompt(drugs, interactions, adverseEvents any) (string, error) {
	docs := make([]any, 3)
	for i, v := range []any{drugs, interactions, adverseEvents} {
		b, err := json.Marshal(v)
		if err != nil {
			return "", fmt.Errorf("encode prompt data: %w", err)
		}
		docs[i] = string(b)
	}
	return fmt.Sprintf(userTemplate, docs...), nil
}
