package notifiers

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadRegistryEnabledFilter(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notifiers.yaml")
	raw := `
notifiers:
  - id: hook1
    type: http
    enabled: false
    http:
      url: https://example.com
  - id: hook2
    type: HTTP
    http:
      url: https://example.com/2
      headers:
        X-Token: " abc "
        Empty: ""
  - id: topic
    type: sns
    sns:
      topic_arn: arn:aws:sns:eu-west-1:123:sessions
      region: eu-west-1
`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	enabled := reg.Enabled()
	if len(enabled) != 2 || enabled[0].ID != "hook2" || enabled[1].ID != "topic" {
		t.Fatalf("expected hook2 and topic enabled, got %#v", enabled)
	}

	hook, ok := reg.ByID("hook2")
	if !ok {
		t.Fatalf("expected hook2 by id")
	}
	if hook.Type != TypeHTTP || hook.HTTP.Method != "POST" || hook.HTTP.TimeoutSeconds != 5 {
		t.Fatalf("defaults not applied: %#v", hook.HTTP)
	}
	if len(hook.HTTP.Headers) != 1 || hook.HTTP.Headers["X-Token"] != "abc" {
		t.Fatalf("headers not sanitized: %#v", hook.HTTP.Headers)
	}
}

func TestLoadRegistryDuplicateID(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notifiers.json")
	raw := `{"notifiers":[
	  {"id":"a","type":"http","http":{"url":"https://x"}},
	  {"id":"a","type":"http","http":{"url":"https://y"}}
	]}`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if _, err := LoadRegistry(path); err == nil {
		t.Fatalf("expected duplicate id error")
	}
}

func TestValidateNotifierConfig(t *testing.T) {
	cases := []NotifierConfig{
		{ID: "h1", Type: TypeHTTP},
		{ID: "q1", Type: TypeSQS, SQS: &SQSNotifierConfig{QueueURL: "https://q"}},
		{ID: "s1", Type: TypeSNS, SNS: &SNSNotifierConfig{Region: "eu-west-1"}},
		{ID: "p1", Type: TypePubSub, PubSub: &PubSubConfig{ProjectID: "p"}},
		{Type: TypeHTTP},
	}
	for _, cfg := range cases {
		if err := validateNotifierConfig(cfg); err == nil {
			t.Fatalf("expected validation error for %#v", cfg)
		}
	}
}
