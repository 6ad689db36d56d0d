package legal

// Pipeline wires the text-processing components around one registry
type Pipeline struct {
	Registry      *LawRegistry
	Extractor     *Extractor
	Classifier    *Classifier
	Summarizer    *Summarizer
	Composer      *Composer
	PostProcessor *PostProcessor
}

func NewPipeline(registry *LawRegistry) *Pipeline {
	extractor := NewExtractor(registry)
	classifier := NewClassifier(extractor)
	summarizer := NewSummarizer(extractor)
	return &Pipeline{
		Registry:      registry,
		Extractor:     extractor,
		Classifier:    classifier,
		Summarizer:    summarizer,
		Composer:      NewComposer(classifier, summarizer),
		PostProcessor: NewPostProcessor(registry, extractor),
	}
}
