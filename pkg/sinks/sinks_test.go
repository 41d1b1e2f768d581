package sinks

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadRegistryYAML(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "sinks.yaml")
	content := `
sinks:
  - id: disk
    type: FILE
    file:
      dir: ./out
  - id: hook
    type: http
    enabled: false
    http:
      url: " https://example.com/hook "
      headers:
        X-Token: abc
        Empty: ""
  - id: queue
    type: sqs
    sqs:
      uri: https://sqs.us-east-1.amazonaws.com/123/captures
      region: us-east-1
      endpoint: http://localhost:4566
  - id: topic
    type: gcp_pubsub
    gcp_pubsub:
      project_id: demo
      topic: captures
`
	if err := os.WriteFile(file, []byte(content), 0o644); err != nil {
		t.Fatalf("write sinks file: %v", err)
	}

	reg, err := LoadRegistry(file)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	if len(reg.All()) != 4 {
		t.Fatalf("expected 4 sinks, got %d", len(reg.All()))
	}
	if len(reg.Enabled()) != 3 {
		t.Fatalf("expected 3 enabled sinks, got %d", len(reg.Enabled()))
	}

	disk, _ := reg.ByID("disk")
	if disk.Type != TypeFile {
		t.Fatalf("type not normalized: %q", disk.Type)
	}

	hook, ok := reg.ByID("hook")
	if !ok {
		t.Fatalf("hook not found")
	}
	if hook.HTTP.URL != "https://example.com/hook" || hook.HTTP.Method != "POST" || hook.HTTP.TimeoutSeconds != 5 {
		t.Fatalf("http defaults not applied: %+v", hook.HTTP)
	}
	if len(hook.HTTP.Headers) != 1 {
		t.Fatalf("empty header not dropped: %v", hook.HTTP.Headers)
	}

	queue, _ := reg.ByID("queue")
	if queue.SQS.Region != "us-east-1" || queue.SQS.Endpoint != "http://localhost:4566" {
		t.Fatalf("inline aws config not decoded: %+v", queue.SQS)
	}
}

func TestLoadRegistryJSON(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "sinks.json")
	content := `{"sinks":[{"id":"alerts","type":"sns","sns":{"topic_arn":"arn:aws:sns:us-east-1:123:alerts","region":"us-east-1"}}]}`
	if err := os.WriteFile(file, []byte(content), 0o644); err != nil {
		t.Fatalf("write sinks file: %v", err)
	}

	reg, err := LoadRegistry(file)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	cfg, ok := reg.ByID("alerts")
	if !ok || cfg.SNS == nil || cfg.SNS.Region != "us-east-1" {
		t.Fatalf("unexpected sns config %+v", cfg)
	}
}

func TestValidateSinkConfigRejectsInvalid(t *testing.T) {
	cases := map[string]SinkConfig{
		"missing id":      {Type: TypeFile, File: &FileSinkConfig{Dir: "x"}},
		"missing type":    {ID: "a"},
		"unknown type":    {ID: "a", Type: "kafka"},
		"file no dir":     {ID: "a", Type: TypeFile, File: &FileSinkConfig{}},
		"http no url":     {ID: "a", Type: TypeHTTP, HTTP: &HTTPSinkConfig{}},
		"sqs no region":   {ID: "a", Type: TypeSQS, SQS: &SQSSinkConfig{QueueURL: "q"}},
		"sns half keys":   {ID: "a", Type: TypeSNS, SNS: &SNSSinkConfig{TopicARN: "t", AWSConfig: AWSConfig{Region: "r", AccessKeyID: "k"}}},
		"pubsub no topic": {ID: "a", Type: TypeGCPPubSub, GCPPubSub: &GCPPubSubConfig{ProjectID: "p"}},
	}
	for name, cfg := range cases {
		if err := validateSinkConfig(sanitizeSinkConfig(cfg)); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestLoadRegistryRejectsDuplicates(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "sinks.yml")
	content := `
sinks:
  - id: disk
    type: file
    file: {dir: a}
  - id: disk
    type: file
    file: {dir: b}
`
	if err := os.WriteFile(file, []byte(content), 0o644); err != nil {
		t.Fatalf("write sinks file: %v", err)
	}
	if _, err := LoadRegistry(file); err == nil {
		t.Fatalf("expected duplicate id error")
	}
}
