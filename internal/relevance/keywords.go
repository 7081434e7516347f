package relevance

// Тематические ключевые слова: хотя бы одно обязано встретиться,
// иначе история отбрасывается независимо от остальных признаков.
var topicalKeywords = []string{
	// Ядро
	"ai", "artificial intelligence", "machine learning", "deep learning",
	"llm", "gpt", "claude", "gemini", "chatbot", "neural network",
	"openai", "anthropic", "google ai", "meta ai", "generative",
	"transformer", "model", "training", "algorithm", "automation",
	// Расширенные термины
	"computer vision", "nlp", "natural language processing",
	"reinforcement learning", "supervised learning", "unsupervised learning",
	"robotics", "autonomous", "intelligent agent", "expert system",
	"knowledge graph", "large language model", "foundation model",
	"multimodal", "diffusion model", "stable diffusion", "dall-e",
	"midjourney", "text-to-image", "image generation",
	// Индустрия
	"ai startup", "ai investment", "ai funding", "ai acquisition",
	"ai partnership", "ai ethics", "ai regulation", "ai policy",
	"ai safety", "ai alignment",
	// Научные площадки
	"arxiv", "preprint", "peer review", "conference",
	"icml", "neurips", "iclr", "aaai", "acl", "emnlp",
	"cvpr", "iccv", "eccv", "siggraph",
}

// Признаки качества: анонсы и исследования интереснее пересудов.
var qualityIndicators = []string{
	"announc", "launch", "releas", "updat", "new version",
	"breakthrough", "research", "study", "paper", "conference",
	"award", "funding", "partnership", "acquisition", "investment",
	"milestone",
}

// Категории скоринга с весами.
var scoreCategories = []struct {
	weight int
	terms  []string
}{
	{3, []string{"ai", "artificial intelligence", "machine learning", "gpt", "llm", "openai", "anthropic"}},
	{2, []string{"deep learning", "neural network", "generative", "transformer", "algorithm"}},
	{2, []string{"arxiv", "preprint", "conference", "paper", "research"}},
	{1, []string{"startup", "funding", "investment", "partnership", "acquisition"}},
}
