// Package cluster fits k-means models that pick their own number of clusters,
// and assigns new points to the clusters of a fitted model.
//
// A KMeansPro instance holds at most one fitted model. Fit runs a number of randomly
// initialised k-means restarts for every candidate cluster count, scores every outcome
// with the mean silhouette coefficient, and keeps the best clustering overall.
//
//	km := cluster.New(cluster.WithSeed(42))
//	model, err := km.Fit(ctx, points, 20)
//	...
//	labels, err := km.Classify(queries, cluster.KNearestNeighbors{K: 3})
package cluster
