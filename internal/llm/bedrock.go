package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
)

// converseAPI is the slice of the Bedrock runtime client used here.
type converseAPI interface {
	Converse(ctx context.Context, params *bedrockruntime.ConverseInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.ConverseOutput, error)
}

// BedrockClient calls the Bedrock Converse API with static credentials.
type BedrockClient struct {
	modelID string
	opts    Options
	api     converseAPI
}

// NewBedrockClient loads an AWS config for the region with the given access
// key pair. The SDK retryer is limited to a single attempt.
func NewBedrockClient(ctx context.Context, s BedrockSettings, opts Options) (*BedrockClient, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(s.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(s.AccessKey, s.SecretKey, "")),
		awsconfig.WithRetryMaxAttempts(1),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return &BedrockClient{
		modelID: s.ModelID,
		opts:    opts,
		api:     bedrockruntime.NewFromConfig(cfg),
	}, nil
}

func (c *BedrockClient) Chat(ctx context.Context, system, user string) (*Reply, error) {
	input := &bedrockruntime.ConverseInput{
		ModelId: aws.String(c.modelID),
		Messages: []types.Message{
			{
				Role:    types.ConversationRoleUser,
				Content: []types.ContentBlock{&types.ContentBlockMemberText{Value: user}},
			},
		},
	}
	if system != "" {
		input.System = []types.SystemContentBlock{&types.SystemContentBlockMemberText{Value: system}}
	}
	if c.opts.Temperature != nil || c.opts.MaxTokens > 0 {
		inf := &types.InferenceConfiguration{}
		if c.opts.Temperature != nil {
			inf.Temperature = aws.Float32(float32(*c.opts.Temperature))
		}
		if c.opts.MaxTokens > 0 {
			inf.MaxTokens = aws.Int32(int32(c.opts.MaxTokens))
		}
		input.InferenceConfig = inf
	}

	out, err := c.api.Converse(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("bedrock: converse: %w", err)
	}
	msg, ok := out.Output.(*types.ConverseOutputMemberMessage)
	if !ok {
		return nil, fmt.Errorf("bedrock: unexpected output type %T", out.Output)
	}
	var text strings.Builder
	for _, block := range msg.Value.Content {
		if t, ok := block.(*types.ContentBlockMemberText); ok {
			text.WriteString(t.Value)
		}
	}

	reply := &Reply{
		Backend: KindBedrock,
		Model:   c.modelID,
		Content: text.String(),
		Raw:     out,
	}
	if out.Usage != nil {
		reply.InputTokens = int(aws.ToInt32(out.Usage.InputTokens))
		reply.OutputTokens = int(aws.ToInt32(out.Usage.OutputTokens))
	}
	return reply, nil
}
