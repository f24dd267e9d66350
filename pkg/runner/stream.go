package runner

import (
	"encoding/json"
	"fmt"
	"io"
)

// streamEvent is one line of claude's stream-json output. Only the fields
// needed for the human-readable projection are decoded; the raw line is
// always logged regardless.
type streamEvent struct {
	Type    string         `json:"type"`
	Message *streamMessage `json:"message"`
	Result  *string        `json:"result"`
}

type streamMessage struct {
	Content []contentBlock `json:"content"`
}

type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// renderLine writes the human-readable projection of one stream-json line
// to w. Malformed JSON and unrecognized event kinds are silently skipped;
// this path never affects the verbatim log tee.
func renderLine(w io.Writer, line []byte) {
	var event streamEvent
	if err := json.Unmarshal(line, &event); err != nil {
		return
	}

	if event.Type != "assistant" && event.Type != "result" {
		return
	}

	if event.Message != nil {
		for _, block := range event.Message.Content {
			if block.Text != "" {
				fmt.Fprint(w, block.Text)
			}
		}
		return
	}

	if event.Result != nil {
		fmt.Fprintf(w, "\nResult: %s\n", *event.Result)
	}
}
