// Package metrics provides regression scores used to evaluate the blended
// prediction and each base learner's out-of-fold column.
//
// Every function accepts n×1 matrices, so a *mat.VecDense, a column view of
// a prediction matrix or a learner's raw output can be passed directly.
package metrics

import (
	"math"

	"github.com/YuminosukeSato/blend/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// pair は検証済みの正解値と予測値を列ベクトルとして取り出す
func pair(op string, yTrue, yPred mat.Matrix) ([]float64, []float64, error) {
	rTrue, cTrue := yTrue.Dims()
	rPred, cPred := yPred.Dims()
	if rTrue == 0 || cTrue == 0 {
		return nil, nil, errors.NewValueError(op, "empty vector")
	}
	if cTrue != 1 || cPred != 1 {
		return nil, nil, errors.NewValueError(op, "must be a column vector (n×1 matrix)")
	}
	if rPred != rTrue {
		return nil, nil, errors.NewDimensionError(op, rTrue, rPred, 0)
	}
	return mat.Col(nil, 0, yTrue), mat.Col(nil, 0, yPred), nil
}

// MSE は平均二乗誤差（Mean Squared Error）を計算する
func MSE(yTrue, yPred mat.Matrix) (float64, error) {
	t, p, err := pair("MSE", yTrue, yPred)
	if err != nil {
		return 0, err
	}
	d := floats.Distance(t, p, 2)
	return d * d / float64(len(t)), nil
}

// RMSE は平方根平均二乗誤差（Root Mean Squared Error）を計算する
func RMSE(yTrue, yPred mat.Matrix) (float64, error) {
	mse, err := MSE(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(mse), nil
}

// MAE は平均絶対誤差（Mean Absolute Error）を計算する
func MAE(yTrue, yPred mat.Matrix) (float64, error) {
	t, p, err := pair("MAE", yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return floats.Distance(t, p, 1) / float64(len(t)), nil
}

// R2Score は決定係数（R²）を計算する。yTrue が定数の場合はエラー。
func R2Score(yTrue, yPred mat.Matrix) (float64, error) {
	t, p, err := pair("R2Score", yTrue, yPred)
	if err != nil {
		return 0, err
	}
	if stat.PopVariance(t, nil) == 0 {
		return 0, errors.Newf("R2Score: total sum of squares is zero (no variance in yTrue)")
	}
	return stat.RSquaredFrom(p, t, nil), nil
}

// MAPE は平均絶対パーセンテージ誤差を計算する。yTrue がゼロの行は除外する。
func MAPE(yTrue, yPred mat.Matrix) (float64, error) {
	t, p, err := pair("MAPE", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	var sum float64
	valid := 0
	for i, v := range t {
		if v == 0 {
			continue
		}
		sum += math.Abs(v-p[i]) / math.Abs(v)
		valid++
	}
	if valid == 0 {
		return 0, errors.Newf("MAPE: all yTrue values are zero")
	}
	return sum / float64(valid) * 100, nil
}

// ExplainedVarianceScore は 1 - Var(yTrue - yPred) / Var(yTrue) を計算する
func ExplainedVarianceScore(yTrue, yPred mat.Matrix) (float64, error) {
	t, p, err := pair("ExplainedVarianceScore", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	varTrue := stat.PopVariance(t, nil)
	if varTrue == 0 {
		return 0, errors.Newf("ExplainedVarianceScore: no variance in yTrue")
	}
	diff := make([]float64, len(t))
	floats.SubTo(diff, t, p)
	return 1 - stat.PopVariance(diff, nil)/varTrue, nil
}

// ColumnScore is the out-of-fold quality of one prediction column.
type ColumnScore struct {
	Column string
	MSE    float64
	R2     float64
}

// ScoreColumns evaluates every column of M against y. A column whose R² is
// undefined (constant y) reports NaN rather than failing the whole report.
func ScoreColumns(M mat.Matrix, y mat.Matrix, names []string) ([]ColumnScore, error) {
	_, b := M.Dims()
	if len(names) != b {
		return nil, errors.NewDimensionError("ScoreColumns", b, len(names), 1)
	}

	out := make([]ColumnScore, b)
	for j := 0; j < b; j++ {
		vals := mat.Col(nil, j, M)
		col := mat.NewVecDense(len(vals), vals)
		mse, err := MSE(y, col)
		if err != nil {
			return nil, err
		}
		r2, err := R2Score(y, col)
		if err != nil {
			r2 = math.NaN()
		}
		out[j] = ColumnScore{Column: names[j], MSE: mse, R2: r2}
	}
	return out, nil
}
