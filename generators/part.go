package generators

type Part interface {
	isPart()
}

type Text string

func (Text) isPart() {}

type Thought string

func (Thought) isPart() {}

type FuncCall struct {
	ID   string
	Name string
	Args map[string]any
}

func (FuncCall) isPart() {}

type CallResult struct {
	ID      string
	Name    string
	Results map[string]any
}

func (CallResult) isPart() {}

type FinishReason string

func (FinishReason) isPart() {}

type Usage struct {
	PromptTokens     int64
	CompletionTokens int64
	ReasoningTokens  int64
}

func (Usage) isPart() {}

type Error struct {
	Error error
}

func (Error) isPart() {}
