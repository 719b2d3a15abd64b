// Package blend fits stacked regression ensembles in Go.
//
// A blend ensemble is a set of base learners, optionally grouped behind
// preprocessing chains, and a meta-model fitted on their out-of-fold
// predictions. Every base learner is cross-validated so that each training row
// is predicted by a learner that never saw it; the meta-model learns how to
// combine those honest predictions; finally every chain and learner is refitted
// on the full data for production use.
//
// # Quick Start
//
//	package main
//
//	import (
//	    "fmt"
//	    "log"
//
//	    "github.com/YuminosukeSato/blend/core/model"
//	    "github.com/YuminosukeSato/blend/ensemble"
//	    "github.com/YuminosukeSato/blend/linear"
//	    "github.com/YuminosukeSato/blend/sklearn/neighbors"
//	    "gonum.org/v1/gonum/mat"
//	)
//
//	func main() {
//	    X := mat.NewDense(6, 1, []float64{1, 2, 3, 4, 5, 6})
//	    y := mat.NewDense(6, 1, []float64{2, 4, 6, 8, 10, 12})
//
//	    ols := model.LearnerFunc(func() model.Learner { return linear.NewLinearRegression() })
//	    knn := model.LearnerFunc(func() model.Learner {
//	        return neighbors.NewKNeighborsRegressor(neighbors.WithNeighbors(2))
//	    })
//
//	    e, err := ensemble.New(ols, ensemble.FlatList{Learners: []ensemble.Learner{
//	        {Name: "ols", Spec: ols},
//	        {Name: "knn", Spec: knn},
//	    }}, ensemble.WithFolds(3))
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    if err := e.Fit(X, y); err != nil {
//	        log.Fatal(err)
//	    }
//
//	    pred, err := e.Predict(mat.NewDense(1, 1, []float64{7}))
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(pred.At(0, 0))
//	}
//
// # Packages
//
//   - ensemble: the blending ensemble, its layouts, pool, out-of-fold predictor and meta-model
//   - preprocessing: StandardScaler, MinMaxScaler and transformer chains
//   - linear: LinearRegression with an optional ridge penalty
//   - sklearn/dummy, sklearn/neighbors: baseline and k-nearest-neighbour regressors
//   - sklearn/model_selection: KFold splitting
//   - metrics: regression metrics and per-column out-of-fold scores
//   - core/model: Learner, Transformer and spec interfaces
//   - core/parallel: bounded fail-fast work scheduling
//   - pkg/errors, pkg/log, pkg/telemetry: errors, structured logging and Prometheus metrics
//
// The blend command (cmd/blend) fits an ensemble described in YAML on a CSV
// file and reports per-column out-of-fold scores.
package blend
