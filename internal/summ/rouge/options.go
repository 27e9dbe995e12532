package rouge

// options holds the engine configuration.
type options struct {
	// nGram is the largest n for ROUGE-N; ROUGE-1..nGram are computed.
	nGram int
	// skipGap is the maximum number of words between the two words of a skip
	// bigram. Negative disables ROUGE-S.
	skipGap int
	// skipUnigram also counts unigrams in ROUGE-S, turning it into ROUGE-SU.
	skipUnigram bool
	// lcs enables ROUGE-L.
	lcs bool
	// wlcsWeight enables ROUGE-W with the given weight when > 1.
	wlcsWeight float64
	// alpha weights precision against recall in the F-measure.
	alpha float64
}

func defaultOptions() *options {
	return &options{
		nGram:       4,
		skipGap:     4,
		skipUnigram: true,
		lcs:         true,
		wlcsWeight:  1.2,
		alpha:       0.5,
	}
}

func newOptions(opt ...Option) *options {
	opts := defaultOptions()
	for _, o := range opt {
		o(opts)
	}
	return opts
}

// Option configures the native engine.
type Option func(*options)

// WithNGram sets the largest n for ROUGE-N. Zero disables ROUGE-N.
func WithNGram(n int) Option {
	return func(o *options) {
		o.nGram = n
	}
}

// WithSkipBigram sets the maximum gap for ROUGE-S; withUnigram adds unigram
// counts (ROUGE-SU). A negative gap disables it.
func WithSkipBigram(maxGap int, withUnigram bool) Option {
	return func(o *options) {
		o.skipGap = maxGap
		o.skipUnigram = withUnigram
	}
}

// WithLCS enables or disables ROUGE-L.
func WithLCS(enabled bool) Option {
	return func(o *options) {
		o.lcs = enabled
	}
}

// WithWLCS sets the ROUGE-W weight. Values <= 1 disable ROUGE-W.
func WithWLCS(weight float64) Option {
	return func(o *options) {
		o.wlcsWeight = weight
	}
}

// WithAlpha sets the F-measure precision weight; 0.5 is the harmonic mean.
func WithAlpha(alpha float64) Option {
	return func(o *options) {
		o.alpha = alpha
	}
}
