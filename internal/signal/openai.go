package signal

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/rs/zerolog/log"

	"github.com/thebtf/stagewhisper/pkg/models"
)

// OpenAIConfig configures the hosted-model collaborator client.
type OpenAIConfig struct {
	APIKey          string
	BaseURL         string
	CoachModel      string
	VisionModel     string
	TranscribeModel string
	SpeechModel     string
	Voice           string
}

// DefaultOpenAIConfig returns the model selection used when settings leave
// them blank.
func DefaultOpenAIConfig() OpenAIConfig {
	return OpenAIConfig{
		CoachModel:      "gpt-4o-mini",
		VisionModel:     "gpt-4o-mini",
		TranscribeModel: string(openai.AudioModelWhisper1),
		SpeechModel:     string(openai.SpeechModelTTS1),
		Voice:           "alloy",
	}
}

// OpenAIClient implements all four inference collaborators against the OpenAI
// API: vision reads, transcription, coaching decisions, and cue synthesis.
// It holds no per-session state and is safe for concurrent use.
type OpenAIClient struct {
	client openai.Client
	cfg    OpenAIConfig
}

// NewOpenAIClient creates the collaborator client. The API key is required;
// everything else falls back to defaults.
func NewOpenAIClient(cfg OpenAIConfig) (*OpenAIClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai: API key required")
	}
	defaults := DefaultOpenAIConfig()
	if cfg.CoachModel == "" {
		cfg.CoachModel = defaults.CoachModel
	}
	if cfg.VisionModel == "" {
		cfg.VisionModel = defaults.VisionModel
	}
	if cfg.TranscribeModel == "" {
		cfg.TranscribeModel = defaults.TranscribeModel
	}
	if cfg.SpeechModel == "" {
		cfg.SpeechModel = defaults.SpeechModel
	}
	if cfg.Voice == "" {
		cfg.Voice = defaults.Voice
	}

	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &OpenAIClient{client: openai.NewClient(opts...), cfg: cfg}, nil
}

// AnalyzeFrame sends the frame to the vision model and parses its formatted
// reply into the structured emotion read.
func (c *OpenAIClient) AnalyzeFrame(ctx context.Context, frame []byte, dealContext string) (models.EmotionResult, error) {
	dataURL := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(frame)

	completion, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.cfg.VisionModel),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage([]openai.ChatCompletionContentPartUnionParam{
				openai.TextContentPart(BuildFramePrompt(dealContext)),
				openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{URL: dataURL}),
			}),
		},
		MaxTokens: openai.Int(120),
	})
	if err != nil {
		return models.EmotionResult{}, fmt.Errorf("vision inference: %w", err)
	}
	if len(completion.Choices) == 0 {
		return models.EmotionResult{}, fmt.Errorf("vision inference: empty completion")
	}
	return ParseFrameResponse(completion.Choices[0].Message.Content), nil
}

// Decide sends the call-state snapshot to the coaching model and parses the
// recommended action. Malformed model output is not an error: it degrades to
// stay_silent inside ParseDecision.
func (c *OpenAIClient) Decide(ctx context.Context, snap Snapshot) (models.Decision, error) {
	completion, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.cfg.CoachModel),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(BuildDecisionPrompt(snap)),
		},
		Temperature: openai.Float(0.7),
		MaxTokens:   openai.Int(256),
	})
	if err != nil {
		return models.Decision{}, fmt.Errorf("coaching inference: %w", err)
	}
	if len(completion.Choices) == 0 {
		return models.Decision{}, fmt.Errorf("coaching inference: empty completion")
	}
	return ParseDecision(completion.Choices[0].Message.Content), nil
}

// Transcribe packs the PCM chunk into WAV and runs speech-to-text. An empty
// transcript is a normal result, not an error.
func (c *OpenAIClient) Transcribe(ctx context.Context, pcm []float32, sampleRate int) (string, error) {
	wav := EncodeWAV(pcm, sampleRate)

	transcription, err := c.client.Audio.Transcriptions.New(ctx, openai.AudioTranscriptionNewParams{
		Model: openai.AudioModel(c.cfg.TranscribeModel),
		File:  openai.File(bytes.NewReader(wav), "chunk.wav", "audio/wav"),
	})
	if err != nil {
		return "", fmt.Errorf("transcription: %w", err)
	}
	return strings.TrimSpace(transcription.Text), nil
}

// Synthesize renders the cue as speech audio. Anything that goes wrong falls
// back to the notification beep so the earpiece still signals the cue.
func (c *OpenAIClient) Synthesize(ctx context.Context, text string) ([]byte, error) {
	res, err := c.client.Audio.Speech.New(ctx, openai.AudioSpeechNewParams{
		Model: openai.SpeechModel(c.cfg.SpeechModel),
		Voice: openai.AudioSpeechNewParamsVoice(c.cfg.Voice),
		Input: text,
	})
	if err != nil {
		log.Warn().Err(err).Msg("Speech synthesis failed, falling back to beep")
		return BeepWAV(), nil
	}
	defer res.Body.Close()

	audio, err := io.ReadAll(res.Body)
	if err != nil || len(audio) < 100 {
		log.Warn().Err(err).Int("bytes", len(audio)).Msg("Speech synthesis returned no usable audio, falling back to beep")
		return BeepWAV(), nil
	}
	return audio, nil
}
