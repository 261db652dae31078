package sweeper

import (
	"context"
	"fmt"

	"bouncely/pkg/logger"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sfn"
)

const maxCauseLength = 32768

// TaskNotifier reports the outcome of a run to whatever scheduled it.
type TaskNotifier interface {
	Succeed(ctx context.Context, output string) error
	Fail(ctx context.Context, cause error) error
}

// SFNAPI is the subset of the Step Functions client the sweeper calls.
type SFNAPI interface {
	SendTaskSuccess(ctx context.Context, params *sfn.SendTaskSuccessInput, optFns ...func(*sfn.Options)) (*sfn.SendTaskSuccessOutput, error)
	SendTaskFailure(ctx context.Context, params *sfn.SendTaskFailureInput, optFns ...func(*sfn.Options)) (*sfn.SendTaskFailureOutput, error)
}

// StepFunctionsNotifier answers a Step Functions task token.
type StepFunctionsNotifier struct {
	client    SFNAPI
	taskToken string
}

func NewStepFunctionsNotifier(client SFNAPI, taskToken string) *StepFunctionsNotifier {
	return &StepFunctionsNotifier{client: client, taskToken: taskToken}
}

func (n *StepFunctionsNotifier) Succeed(ctx context.Context, output string) error {
	_, err := n.client.SendTaskSuccess(ctx, &sfn.SendTaskSuccessInput{
		TaskToken: aws.String(n.taskToken),
		Output:    aws.String(output),
	})
	if err != nil {
		return fmt.Errorf("failed to send task success: %w", err)
	}
	return nil
}

func (n *StepFunctionsNotifier) Fail(ctx context.Context, cause error) error {
	msg := cause.Error()
	if len(msg) > maxCauseLength {
		msg = msg[:maxCauseLength]
	}
	_, err := n.client.SendTaskFailure(ctx, &sfn.SendTaskFailureInput{
		TaskToken: aws.String(n.taskToken),
		Error:     aws.String("SweepFailed"),
		Cause:     aws.String(msg),
	})
	if err != nil {
		return fmt.Errorf("failed to send task failure: %w", err)
	}
	return nil
}

// LogNotifier is used when the job runs outside Step Functions.
type LogNotifier struct {
	log *logger.Logger
}

func NewLogNotifier(log *logger.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Succeed(_ context.Context, output string) error {
	n.log.Info("Sweep finished", "summary", output)
	return nil
}

func (n *LogNotifier) Fail(_ context.Context, cause error) error {
	n.log.Error("Sweep failed", "error", cause)
	return nil
}
