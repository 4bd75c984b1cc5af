package generators

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/reusee/dscope"
	"github.com/reusee/sleuth/cmds"
	"github.com/reusee/sleuth/debugs"
	"github.com/reusee/sleuth/logs"
	"github.com/reusee/sleuth/nets"
	"github.com/reusee/sleuth/vars"
)

var (
	debugOpenAI     = cmds.Switch("-debug-openai")
	tapOpenAI       = cmds.Switch("-tap-openai")
	temperatureFlag = cmds.Var[float32]("-temperature")
)

type OpenAI struct {
	args   GeneratorArgs
	client openai.Client

	Logger dscope.Inject[logs.Logger]
	Tap    dscope.Inject[debugs.Tap]
}

var _ Generator = new(OpenAI)

func (o *OpenAI) Args() GeneratorArgs {
	return o.args
}

func (o *OpenAI) Generate(ctx context.Context, state State) (ret State, err error) {
	ret = state

	messages, err := stateToOpenAIMessages(ret)
	if err != nil {
		return nil, err
	}

	var tools []openai.ChatCompletionToolUnionParam
	for _, fn := range ret.FuncMap() {
		tools = append(tools, fn.Decl.ToOpenAI())
	}

	params := openai.ChatCompletionNewParams{
		Model:    o.args.Model,
		Messages: messages,
		Tools:    tools,
	}
	temperature := vars.FirstNonZero(
		*temperatureFlag,
		vars.DerefOrZero(o.args.Temperature),
	)
	if len(tools) == 1 {
		// a lone func is the only acceptable answer
		params.ToolChoice = openai.ChatCompletionToolChoiceOptionUnionParam{
			OfAuto: openai.String("required"),
		}
	}
	if temperature != 0 {
		params.Temperature = openai.Opt(float64(temperature))
	}
	if n := vars.DerefOrZero(o.args.MaxGenerateTokens); n > 0 {
		params.MaxCompletionTokens = openai.Opt(int64(n))
	}

	if *debugOpenAI {
		jsonText, err := json.Marshal(messages)
		if err != nil {
			return nil, err
		}
		o.Logger().InfoContext(ctx, "open ai messages to send",
			"messages", jsonText,
		)
	}

	if *tapOpenAI {
		o.Tap()(ctx, "before chat completion", map[string]any{
			"system": ret.SystemPrompt(),
			"model":  o.args.Model,
		})
	}

	o.Logger().DebugContext(ctx, "generating",
		"model", o.args.Model,
	)

	resp, err := o.client.Chat.Completions.New(ctx, params)
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusTooManyRequests {
			return ret, errors.Join(err, ErrRetryable)
		}
		return ret, wrap(err)
	}
	if len(resp.Choices) == 0 {
		return ret, errors.Join(errors.New("no choices"), ErrRetryable)
	}

	choice := resp.Choices[0]
	content := &Content{
		Role: RoleAssistant,
	}
	if choice.Message.Content != "" {
		content.Parts = append(content.Parts, Text(choice.Message.Content))
	}
	for _, call := range choice.Message.ToolCalls {
		var args map[string]any
		if call.Function.Arguments != "" {
			if err := json.Unmarshal([]byte(call.Function.Arguments), &args); err != nil {
				return ret, fmt.Errorf("%w: %s: %w", ErrBadArguments, call.Function.Name, err)
			}
		}
		content.Parts = append(content.Parts, FuncCall{
			ID:   call.ID,
			Name: call.Function.Name,
			Args: args,
		})
	}

	if *debugOpenAI {
		o.Logger().InfoContext(ctx, "OpenAI content",
			"details", content,
		)
	}

	if len(content.Parts) > 0 {
		if ret, err = ret.AppendContent(content); err != nil {
			return ret, err
		}
	}

	if ret, err = ret.AppendContent(&Content{
		Role: RoleLog,
		Parts: []Part{
			FinishReason(choice.FinishReason),
			Usage{
				PromptTokens:     resp.Usage.PromptTokens,
				CompletionTokens: resp.Usage.CompletionTokens,
				ReasoningTokens:  resp.Usage.CompletionTokensDetails.ReasoningTokens,
			},
		},
	}); err != nil {
		return ret, err
	}

	if ret, err = ret.Flush(); err != nil {
		return ret, err
	}

	return ret, nil
}

// stateToOpenAIMessages renders every content as a plain text message.
// Calls and results become text so a conversation can be replayed against any compatible endpoint.
func stateToOpenAIMessages(state State) (messages []openai.ChatCompletionMessageParamUnion, err error) {
	if state.SystemPrompt() != "" {
		messages = append(messages, openai.SystemMessage(state.SystemPrompt()))
	}

	for _, content := range state.Contents() {
		if content.Role == RoleLog {
			continue
		}

		var b strings.Builder
		for _, part := range content.Parts {
			switch part := part.(type) {

			case Text:
				b.WriteString(string(part))

			case Thought:
				if len(part) > 0 {
					b.WriteString("<thought>" + string(part) + "</thought>")
				}

			case FuncCall:
				argsBytes, err := json.Marshal(part.Args)
				if err != nil {
					return nil, err
				}
				if b.Len() > 0 {
					b.WriteString("\n")
				}
				fmt.Fprintf(&b, "called %s(%s)", part.Name, argsBytes)

			case CallResult:
				resultsBytes, err := json.Marshal(part.Results)
				if err != nil {
					return nil, err
				}
				if b.Len() > 0 {
					b.WriteString("\n")
				}
				fmt.Fprintf(&b, "result of %s: %s", part.Name, resultsBytes)

			}
		}
		if b.Len() == 0 {
			continue
		}

		switch content.Role {
		case RoleSystem:
			messages = append(messages, openai.SystemMessage(b.String()))
		case RoleAssistant:
			messages = append(messages, openai.AssistantMessage(b.String()))
		default:
			messages = append(messages, openai.UserMessage(b.String()))
		}
	}

	return
}

type NewOpenAI func(args GeneratorArgs, apiKey string) *OpenAI

func (Module) NewOpenAI(
	inject dscope.InjectStruct,
	client nets.HTTPClient,
) NewOpenAI {
	return func(args GeneratorArgs, apiKey string) *OpenAI {
		opts := []option.RequestOption{
			option.WithAPIKey(apiKey),
			option.WithHTTPClient(client),
			option.WithMaxRetries(0),
		}
		if args.BaseURL != "" {
			opts = append(opts, option.WithBaseURL(args.BaseURL))
		}
		ret := &OpenAI{
			args:   args,
			client: openai.NewClient(opts...),
		}
		inject(&ret)
		return ret
	}
}

type NewOpenRouter func(args GeneratorArgs) *OpenAI

func (Module) NewOpenRouter(
	newOpenAI NewOpenAI,
	apiKey OpenRouterAPIKey,
) NewOpenRouter {
	return func(args GeneratorArgs) *OpenAI {
		args.BaseURL = vars.FirstNonZero(args.BaseURL, "https://openrouter.ai/api/v1")
		return newOpenAI(args, vars.FirstNonZero(args.APIKey, string(apiKey)))
	}
}

type NewDeepseek func(args GeneratorArgs) *OpenAI

func (Module) NewDeepseek(
	newOpenAI NewOpenAI,
	apiKey DeepseekAPIKey,
) NewDeepseek {
	return func(args GeneratorArgs) *OpenAI {
		args.BaseURL = vars.FirstNonZero(args.BaseURL, "https://api.deepseek.com")
		return newOpenAI(args, vars.FirstNonZero(args.APIKey, string(apiKey)))
	}
}
