// Package main trains a minimal GAN on MNIST-style images and writes
// a grid of generated samples when training finishes.
package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"

	"github.com/mirage-ml/mirage/autodiff"
	"github.com/mirage-ml/mirage/backend/cpu"
	"github.com/mirage-ml/mirage/dataset"
	"github.com/mirage-ml/mirage/gan"
	"github.com/mirage-ml/mirage/render"
)

func main() {
	dataPath := flag.String("data", "./data/train-images-idx3-ubyte", "Path to MNIST IDX image file")
	maxSamples := flag.Int("samples", 0, "Max images to load (0 = all)")
	epochs := flag.Int("epochs", 30000, "Number of training iterations")
	batchSize := flag.Int("batch", 32, "Batch size (each discriminator step uses half)")
	seed := flag.Int64("seed", 1, "Random seed for weights and sampling")
	out := flag.String("out", "samples.png", "Output path for the generated sample grid")
	useSynthetic := flag.Bool("synthetic", false, "Use synthetic data (for testing without MNIST files)")
	flag.Parse()

	var provider dataset.Provider
	if *useSynthetic {
		provider = &dataset.Synthetic{Count: 1000, Rows: 28, Cols: 28, Seed: *seed}
	} else {
		provider = &dataset.MNIST{Path: *dataPath, MaxSamples: *maxSamples}
	}

	data, err := provider.Load()
	if err != nil {
		log.Fatalf("Failed to load dataset: %v", err)
	}
	data.Normalize()
	fmt.Printf("Loaded %d images of shape (%d, %d)\n", data.Len(), data.Rows, data.Cols)

	config := gan.DefaultConfig(data.Rows, data.Cols)
	config.Epochs = *epochs
	config.BatchSize = *batchSize
	config.Seed = *seed

	backend := autodiff.New(cpu.New())
	rng := rand.New(rand.NewSource(config.Seed))

	discriminator, err := gan.NewDiscriminator(config, rng, backend)
	if err != nil {
		log.Fatalf("Failed to build discriminator: %v", err)
	}
	generator, err := gan.NewGenerator(config, rng, backend)
	if err != nil {
		log.Fatalf("Failed to build generator: %v", err)
	}
	composite, err := gan.NewComposite(generator, discriminator, config, backend)
	if err != nil {
		log.Fatalf("Failed to build composite: %v", err)
	}

	trainer, err := gan.NewTrainer(config, composite, backend)
	if err != nil {
		log.Fatalf("Failed to build trainer: %v", err)
	}
	trainer.SetRenderer(render.NewPNGGrid(*out, config.SampleRows, config.SampleCols))

	fmt.Printf("Training: %d epochs, batch %d, Adam(lr=%g, beta1=%g), seed %d\n",
		config.Epochs, config.BatchSize, config.LearningRate, config.Beta1, config.Seed)

	if err := trainer.Run(data); err != nil {
		log.Fatalf("Training failed: %v", err)
	}
	fmt.Printf("Done. Samples written to %s\n", *out)
}
