package main

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/exp/rand"

	"github.com/drakos74/kmeanspro/cluster"
	"github.com/drakos74/kmeanspro/infra/config"
	kmath "github.com/drakos74/kmeanspro/internal/math"
)

const (
	numSam    = 100
	numVar    = 2
	numRepeat = 20
)

func init() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}

func main() {

	cfg := config.Default()
	config.MustLoad(config.KMeansKey, &cfg)
	if err := cfg.Validate(); err != nil {
		panic(fmt.Sprintf("invalid config : %+v", err))
	}

	rng := rand.New(rand.NewSource(uint64(time.Now().UnixNano())))
	datapoints := kmath.Uniform(rng, numSam, numVar)
	candidates := kmath.Uniform(rng, 1, numVar)

	km := cluster.New(cluster.WithConfig(cfg))
	model, err := km.Fit(context.Background(), datapoints, numRepeat)
	if err != nil {
		panic(fmt.Sprintf("could not fit model : %+v", err))
	}

	fmt.Printf("The best suggested Number of Cluster=%d\n", model.NumCluster())
	fmt.Printf("goodness of the trained model = %s\n", kmath.Format(model.Goodness()))
	fmt.Printf("clusters counting members%v\n", model.ClusterCounts())

	for _, s := range model.Summaries() {
		fmt.Printf("cluster %d : size=%d centroid=%s avg-distance=%s sse=%s\n",
			s.Cluster, s.Size, kmath.FormatPoint(s.Centroid), kmath.Format(s.AvgDistance), kmath.Format(s.SSE))
	}

	for _, method := range []cluster.Method{
		cluster.NearestCentroid{},
		cluster.KNearestNeighbors{K: 3},
	} {
		scene, err := km.Scene(candidates, method)
		if err != nil {
			panic(fmt.Sprintf("could not classify candidates : %+v", err))
		}
		for i, q := range scene.Queries {
			fmt.Printf("%s : %s -> cluster %d\n", scene.Method, kmath.FormatPoint(q), scene.QueryLabels[i])
		}
	}
}
