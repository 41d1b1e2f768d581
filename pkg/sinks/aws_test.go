package sinks

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/snapapi-hq/snapapi-go/internal/domain"
)

type fakeSQSClient struct {
	input *sqs.SendMessageInput
	err   error
}

func (f *fakeSQSClient) SendMessage(_ context.Context, params *sqs.SendMessageInput, _ ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &sqs.SendMessageOutput{MessageId: aws.String("msg-123")}, nil
}

type fakeSNSClient struct {
	input *sns.PublishInput
	err   error
}

func (f *fakeSNSClient) Publish(_ context.Context, params *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &sns.PublishOutput{MessageId: aws.String("msg-456")}, nil
}

func testEvent() Event {
	return NewEvent("run-1", "Homepage", domain.Artifact{TaskID: "home", Kind: "screenshot", Data: []byte("binary")})
}

func TestSQSSinkPublishSuccess(t *testing.T) {
	client := &fakeSQSClient{}
	sink := &sqsSink{id: "queue", queueURL: "https://example.com/queue", client: client, log: noopLogger{}}

	if err := sink.Publish(context.Background(), testEvent()); err != nil {
		t.Fatalf("Publish returned error: %v", err)
	}
	if client.input == nil {
		t.Fatalf("client was not called")
	}
	if got := aws.ToString(client.input.QueueUrl); got != "https://example.com/queue" {
		t.Fatalf("QueueUrl = %s", got)
	}
	attr, ok := client.input.MessageAttributes["task_id"]
	if !ok || aws.ToString(attr.StringValue) != "home" || aws.ToString(attr.DataType) != "String" {
		t.Fatalf("task_id attribute missing or wrong: %#v", attr)
	}
	body := aws.ToString(client.input.MessageBody)
	if !strings.Contains(body, `"task_id":"home"`) || strings.Contains(body, "binary") {
		t.Fatalf("unexpected MessageBody: %s", body)
	}
}

func TestSQSSinkPublishError(t *testing.T) {
	client := &fakeSQSClient{err: errors.New("boom")}
	sink := &sqsSink{id: "queue", queueURL: "q", client: client, log: noopLogger{}}
	if err := sink.Publish(context.Background(), testEvent()); err == nil {
		t.Fatalf("expected error from Publish")
	}
}

func TestSNSSinkPublishSuccess(t *testing.T) {
	client := &fakeSNSClient{}
	sink := &snsSink{id: "topic", topicARN: "arn:aws:sns:::topic", client: client, log: noopLogger{}}

	if err := sink.Publish(context.Background(), testEvent()); err != nil {
		t.Fatalf("Publish returned error: %v", err)
	}
	if got := aws.ToString(client.input.TopicArn); got != "arn:aws:sns:::topic" {
		t.Fatalf("TopicArn = %s", got)
	}
	attr := client.input.MessageAttributes["task_id"]
	if aws.ToString(attr.StringValue) != "home" {
		t.Fatalf("task_id attribute wrong: %#v", attr)
	}
	if !strings.Contains(aws.ToString(client.input.Message), `"run_id":"run-1"`) {
		t.Fatalf("Message missing run_id: %s", aws.ToString(client.input.Message))
	}
}

func TestSNSSinkPublishError(t *testing.T) {
	client := &fakeSNSClient{err: errors.New("boom")}
	sink := &snsSink{id: "topic", topicARN: "t", client: client, log: noopLogger{}}
	if err := sink.Publish(context.Background(), testEvent()); err == nil {
		t.Fatalf("expected error from Publish")
	}
}

func TestLoadAWSConfigStaticCredentials(t *testing.T) {
	cfg, err := loadAWSConfig(context.Background(), AWSConfig{
		Region:          "eu-west-1",
		AccessKeyID:     "AKIDEXAMPLE",
		SecretAccessKey: "secret",
		Endpoint:        "http://localhost:4566",
	})
	if err != nil {
		t.Fatalf("loadAWSConfig: %v", err)
	}
	if cfg.Region != "eu-west-1" || aws.ToString(cfg.BaseEndpoint) != "http://localhost:4566" {
		t.Fatalf("unexpected config region=%s endpoint=%s", cfg.Region, aws.ToString(cfg.BaseEndpoint))
	}
	creds, err := cfg.Credentials.Retrieve(context.Background())
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if creds.AccessKeyID != "AKIDEXAMPLE" {
		t.Fatalf("AccessKeyID = %s", creds.AccessKeyID)
	}
}
