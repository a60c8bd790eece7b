package docs

import (
	"strings"
	"testing"
)

func TestTopicsAndGet(t *testing.T) {
	topics := Topics()
	if len(topics) == 0 {
		t.Fatal("no embedded topics")
	}
	for _, topic := range topics {
		body, ok := Get(topic)
		if !ok || strings.TrimSpace(body) == "" {
			t.Fatalf("topic %q has no content", topic)
		}
	}
	if _, ok := Get("no-such-topic"); ok {
		t.Fatal("unknown topic should miss")
	}
	if _, ok := Get("  Getting-Started "); !ok {
		t.Fatal("lookup should normalize case and whitespace")
	}
}
