package relevance

import "testing"

func TestIsRelevant(t *testing.T) {
	cases := []struct {
		text string
		want bool
	}{
		{"OpenAI announces new GPT model", true},
		{"Anthropic research paper on interpretability", true},
		{"Local bakery wins pie contest", false},
		{"Neural networks explained", false},
		{"Neural networks explained in a long detailed guide for beginners covering layers and training", true},
		{"", false},
	}
	for _, c := range cases {
		if got := IsRelevant(c.text); got != c.want {
			t.Errorf("IsRelevant(%q) = %v, ожидали %v", c.text, got, c.want)
		}
	}
}

func TestIsRelevantCoversAllCategories(t *testing.T) {
	// По представителю из каждой группы тематического набора.
	cases := []string{
		"NeurIPS announces record paper submissions",
		"ICML releases workshop schedule",
		"CVPR study on image generation quality",
		"Startup launches foundation model for biology",
		"New AI safety framework announced by regulators",
		"Training run milestone reported for multimodal model",
		"Chatbot update brings offline mode",
	}
	for _, text := range cases {
		if !IsRelevant(text) {
			t.Errorf("IsRelevant(%q) = false, ожидали true", text)
		}
	}
}

func TestScoreWeights(t *testing.T) {
	// Из ядра совпадают "ai", "gpt" и "openai" по 3, "research" даёт 2.
	if got := Score("OpenAI publishes GPT research"); got != 11 {
		t.Fatalf("ожидали 11, получили %d", got)
	}
	if got := Score("startup funding round"); got != 2 {
		t.Fatalf("ожидали 2, получили %d", got)
	}
	if got := Score("nothing related at all"); got != 0 {
		t.Fatalf("ожидали 0, получили %d", got)
	}
}

func TestScoreCountsTermOnce(t *testing.T) {
	if got := Score("gpt gpt gpt"); got != 3 {
		t.Fatalf("повторы термина не должны накапливаться: %d", got)
	}
}
