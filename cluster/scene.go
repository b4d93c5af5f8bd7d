package cluster

import "github.com/drakos74/kmeanspro/internal/math/ml"

// Scene is everything a plot of the fitted model needs:
// the clusters with their training samples, and the classified query points.
type Scene struct {
	Model       string
	Method      string
	Centroids   [][]float64
	Points      [][]float64
	Labels      []int
	Queries     [][]float64
	QueryLabels []int
}

// Scene classifies the query points with the given method and bundles them with the fitted model.
func (k *KMeansPro) Scene(queries [][]float64, method Method) (Scene, error) {
	model, err := k.Model()
	if err != nil {
		return Scene{}, err
	}
	labels, err := model.Classify(queries, method)
	if err != nil {
		return Scene{}, err
	}
	k.metrics.Classified(method.String(), len(queries))
	qq := make([][]float64, len(queries))
	for i, q := range queries {
		qq[i] = append([]float64(nil), q...)
	}
	return newScene(model, method, qq, labels), nil
}

func newScene(model *ml.Model, method Method, queries [][]float64, labels []int) Scene {
	return Scene{
		Model:       model.ID(),
		Method:      method.String(),
		Centroids:   model.Centroids(),
		Points:      model.Data(),
		Labels:      model.Labels(),
		Queries:     queries,
		QueryLabels: labels,
	}
}
