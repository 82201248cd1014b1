// Package processor runs the classify-and-tag pipeline over uploaded
// documents.
package processor

import (
	"github.com/data443/doctagger/pkg/infra/classifier"
	"github.com/data443/doctagger/pkg/storage"
	"github.com/sirupsen/logrus"
)

type Options struct {
	TagName       string
	MaxWorkers    int
	SkipTagging   bool
	UseFirstMatch bool
}

type Processor struct {
	classifier classifier.Client
	store      *storage.Store
	logger     *logrus.Logger
	opts       Options
}

func New(
	classifierClient classifier.Client,
	store *storage.Store,
	logger *logrus.Logger,
	opts Options,
) *Processor {
	if opts.TagName == "" {
		opts.TagName = "Data Class"
	}
	if opts.MaxWorkers <= 0 {
		opts.MaxWorkers = 5
	}
	return &Processor{
		classifier: classifierClient,
		store:      store,
		logger:     logger,
		opts:       opts,
	}
}
