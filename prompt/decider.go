package prompt

import (
	"context"
	"fmt"

	"github.com/torre76/screenrec/ffmpeg"
)

// Private variables (alphabetical)

// decisionOptions are listed in this order; the index maps onto decisions.
var decisionOptions = []struct {
	label    string
	decision ffmpeg.Decision
}{
	{"Convert again with lower frame rate", ffmpeg.RepeatWithLowerFrameRate},
	{"Convert again with lower resolution", ffmpeg.RepeatWithLowerResolution},
	{"Keep as is", ffmpeg.KeepAsIs},
}

// Public types (alphabetical)

// Decider asks the user what to do with an oversized GIF.
type Decider struct {
	// Choose presents the options. Defaults to the interactive Choose.
	Choose ChooseFunc
}

// Public functions (alphabetical)

// NewDecider returns a Decider that prompts in the terminal.
func NewDecider() *Decider {
	return &Decider{Choose: Choose}
}

// Public methods (alphabetical)

// Decide implements ffmpeg.Decider.
func (d *Decider) Decide(ctx context.Context, sizeMB float64) (ffmpeg.Decision, error) {
	choose := d.Choose
	if choose == nil {
		choose = Choose
	}

	labels := make([]string, 0, len(decisionOptions))
	for _, option := range decisionOptions {
		labels = append(labels, option.label)
	}

	title := fmt.Sprintf("The GIF (%.2f MB) is too large to be shared on GitHub. What do you want to do?", sizeMB)
	idx, err := choose(ctx, title, labels)
	if err != nil {
		return ffmpeg.KeepAsIs, err
	}
	if idx < 0 || idx >= len(decisionOptions) {
		return ffmpeg.KeepAsIs, fmt.Errorf("prompt: choice %d out of range", idx)
	}
	return decisionOptions[idx].decision, nil
}
