// Package errors はプロジェクト全体のエラーハンドリングと警告システムを提供します。
//
// Every failure raised while blending (fold partitioning, preprocessing, base
// learner fitting, column bookkeeping) is a typed error built on
// cockroachdb/errors so that a stack trace is attached at the point of
// creation. Errors that wrap a collaborator failure unwrap to it, so
// errors.Is(err, original) holds for the caller.
package errors

import (
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// ===========================================================================
//
//	グローバル警告ハンドリング
//
// ===========================================================================
var (
	warningMutex   sync.Mutex
	warningHandler = func(w error) {
		log.Printf("blend-warning: %v\n", w)
	}
	// zerologロガー（循環importを避けるため遅延初期化）
	zerologWarnFunc func(warning error)
)

// SetWarningHandler sets the library wide warning handler.
//
//	errors.SetWarningHandler(func(w error) {
//	    // ignore warnings
//	})
func SetWarningHandler(handler func(w error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	warningHandler = handler
}

// SetZerologWarnFunc はzerolog警告関数を設定します（循環importを避けるため）。
func SetZerologWarnFunc(warnFunc func(warning error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	zerologWarnFunc = warnFunc
}

// Warn emits a warning through the zerolog hook when one is installed and
// falls back to the plain handler otherwise.
func Warn(w error) {
	warningMutex.Lock()
	defer warningMutex.Unlock()

	if zerologWarnFunc != nil {
		zerologWarnFunc(w)
		return
	}
	if warningHandler != nil {
		warningHandler(w)
	}
}

// DegenerateFeatureWarning is raised when a scaler meets a constant column and
// falls back to a unit scale for it.
type DegenerateFeatureWarning struct {
	Transformer string
	Feature     int
}

func (w *DegenerateFeatureWarning) Error() string {
	return fmt.Sprintf("%s: feature %d is constant, using unit scale", w.Transformer, w.Feature)
}

// MarshalZerologObject はzerologのイベントに構造化された警告情報を追加します。
func (w *DegenerateFeatureWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Str("transformer", w.Transformer).
		Int("feature", w.Feature).
		Str("type", "DegenerateFeatureWarning")
}

// NewDegenerateFeatureWarning creates a DegenerateFeatureWarning.
func NewDegenerateFeatureWarning(transformer string, feature int) *DegenerateFeatureWarning {
	return &DegenerateFeatureWarning{Transformer: transformer, Feature: feature}
}

// ===========================================================================
//
//	構造化されたエラー型
//
// ===========================================================================

// NotFittedError はモデルが未学習の状態で `Predict` や `Transform` を呼び出した場合のエラーです。
type NotFittedError struct {
	ModelName string
	Method    string
}

func (e *NotFittedError) Error() string {
	return fmt.Sprintf("blend: %s: this model is not fitted yet. Call Fit() before using %s()", e.ModelName, e.Method)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *NotFittedError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("model_name", e.ModelName).
		Str("method", e.Method).
		Str("type", "NotFittedError")
}

// NewNotFittedError は新しいNotFittedErrorを作成し、スタックトレースを付与します。
func NewNotFittedError(modelName, method string) error {
	return errors.WithStack(&NotFittedError{ModelName: modelName, Method: method})
}

// DimensionError は入力データの次元が期待値と異なる場合のエラーです。
type DimensionError struct {
	Op       string
	Expected int
	Got      int
	Axis     int // 0 for rows, 1 for columns/features
}

func (e *DimensionError) axisName() string {
	if e.Axis == 0 {
		return "rows"
	}
	return "features"
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("blend: %s: dimension mismatch on axis %d (%s). Expected %d, got %d", e.Op, e.Axis, e.axisName(), e.Expected, e.Got)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *DimensionError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Int("expected", e.Expected).
		Int("got", e.Got).
		Int("axis", e.Axis).
		Str("axis_name", e.axisName()).
		Str("type", "DimensionError")
}

// NewDimensionError は新しいDimensionErrorを作成し、スタックトレースを付与します。
func NewDimensionError(op string, expected, got, axis int) error {
	return errors.WithStack(&DimensionError{Op: op, Expected: expected, Got: got, Axis: axis})
}

// ValidationError は入力パラメータの検証に失敗した場合のエラーです。
type ValidationError struct {
	ParamName string
	Reason    string
	Value     interface{}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("blend: validation failed for parameter '%s': %s (got: %v)", e.ParamName, e.Reason, e.Value)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *ValidationError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("param_name", e.ParamName).
		Str("reason", e.Reason).
		Interface("value", e.Value).
		Str("type", "ValidationError")
}

// NewValidationError は新しいValidationErrorを作成し、スタックトレースを付与します。
func NewValidationError(param, reason string, value interface{}) error {
	return errors.WithStack(&ValidationError{ParamName: param, Reason: reason, Value: value})
}

// ValueError は引数の値が不適切または不正な場合に発生するエラーです。
type ValueError struct {
	Op      string
	Message string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("blend: %s: %s", e.Op, e.Message)
}

// NewValueError は新しいValueErrorを作成し、スタックトレースを付与します。
func NewValueError(op, message string) error {
	return errors.WithStack(&ValueError{Op: op, Message: message})
}

// ModelError は機械学習モデルに関する一般的なエラーです。
type ModelError struct {
	Op   string
	Kind string
	Err  error
}

func (e *ModelError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("blend: %s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("blend: %s: %s", e.Op, e.Kind)
}

func (e *ModelError) Unwrap() error {
	return e.Err
}

// NewModelError は新しいModelErrorを作成し、スタックトレースを付与します。
func NewModelError(op, kind string, err error) error {
	return errors.WithStack(&ModelError{Op: op, Kind: kind, Err: err})
}

// ===========================================================================
//
//	Blending errors
//
// ===========================================================================

// InvalidFoldCountError is returned when the requested number of folds cannot
// partition the samples: fewer than two folds, or more folds than samples.
type InvalidFoldCountError struct {
	Folds   int
	Samples int
}

func (e *InvalidFoldCountError) Error() string {
	return fmt.Sprintf("blend: invalid fold count %d for %d samples: need 2 <= folds <= samples", e.Folds, e.Samples)
}

// MarshalZerologObject adds the fold count and sample size to a zerolog event.
func (e *InvalidFoldCountError) MarshalZerologObject(event *zerolog.Event) {
	event.Int("folds", e.Folds).
		Int("samples", e.Samples).
		Str("type", "InvalidFoldCountError")
}

// NewInvalidFoldCountError creates an InvalidFoldCountError with a stack trace.
func NewInvalidFoldCountError(folds, samples int) error {
	return errors.WithStack(&InvalidFoldCountError{Folds: folds, Samples: samples})
}

// FoldCoverageError reports sample indices that were never held out, or were
// held out more than once, across all folds.
type FoldCoverageError struct {
	Missing    []int
	Duplicated []int
}

func (e *FoldCoverageError) Error() string {
	return fmt.Sprintf("blend: folds do not cover samples exactly once: %d missing %s, %d duplicated %s",
		len(e.Missing), previewIndices(e.Missing), len(e.Duplicated), previewIndices(e.Duplicated))
}

// MarshalZerologObject adds the offending indices to a zerolog event.
func (e *FoldCoverageError) MarshalZerologObject(event *zerolog.Event) {
	event.Ints("missing", e.Missing).
		Ints("duplicated", e.Duplicated).
		Str("type", "FoldCoverageError")
}

// NewFoldCoverageError creates a FoldCoverageError with a stack trace.
func NewFoldCoverageError(missing, duplicated []int) error {
	return errors.WithStack(&FoldCoverageError{Missing: missing, Duplicated: duplicated})
}

// PreprocessingError wraps the failure of one transformer in a preprocessing
// chain. Unwrap returns the transformer's own error.
type PreprocessingError struct {
	Case string
	Step string
	Err  error
}

func (e *PreprocessingError) Error() string {
	return fmt.Sprintf("blend: preprocessing case '%s' step '%s' failed: %v", e.Case, e.Step, e.Err)
}

func (e *PreprocessingError) Unwrap() error {
	return e.Err
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *PreprocessingError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("case", e.Case).
		Str("step", e.Step).
		AnErr("cause", e.Err).
		Str("type", "PreprocessingError")
}

// NewPreprocessingError creates a PreprocessingError with a stack trace.
func NewPreprocessingError(caseName, step string, err error) error {
	return errors.WithStack(&PreprocessingError{Case: caseName, Step: step, Err: err})
}

// LearnerFitError wraps the failure of a base learner while fitting.
type LearnerFitError struct {
	Case    string
	Learner string
	Err     error
}

func (e *LearnerFitError) Error() string {
	if e.Case == "" {
		return fmt.Sprintf("blend: learner '%s' failed to fit: %v", e.Learner, e.Err)
	}
	return fmt.Sprintf("blend: learner '%s' in case '%s' failed to fit: %v", e.Learner, e.Case, e.Err)
}

func (e *LearnerFitError) Unwrap() error {
	return e.Err
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *LearnerFitError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("case", e.Case).
		Str("learner", e.Learner).
		AnErr("cause", e.Err).
		Str("type", "LearnerFitError")
}

// NewLearnerFitError creates a LearnerFitError with a stack trace.
func NewLearnerFitError(caseName, learner string, err error) error {
	return errors.WithStack(&LearnerFitError{Case: caseName, Learner: learner, Err: err})
}

// ColumnOrderError is returned when the prediction matrix built at predict
// time does not line up with the one the meta-model was trained on.
type ColumnOrderError struct {
	Expected []string
	Got      []string
}

func (e *ColumnOrderError) Error() string {
	return fmt.Sprintf("blend: prediction columns [%s] do not match fit-time columns [%s]",
		strings.Join(e.Got, ", "), strings.Join(e.Expected, ", "))
}

// MarshalZerologObject adds both column lists to a zerolog event.
func (e *ColumnOrderError) MarshalZerologObject(event *zerolog.Event) {
	event.Strs("expected", e.Expected).
		Strs("got", e.Got).
		Str("type", "ColumnOrderError")
}

// NewColumnOrderError creates a ColumnOrderError with a stack trace.
func NewColumnOrderError(expected, got []string) error {
	return errors.WithStack(&ColumnOrderError{Expected: expected, Got: got})
}

func previewIndices(idx []int) string {
	const limit = 8
	if len(idx) <= limit {
		return fmt.Sprintf("%v", idx)
	}
	return fmt.Sprintf("%v...", idx[:limit])
}

// ===========================================================================
//
//	cockroachdb/errors ラッパー関数
//
// ===========================================================================

// Is はエラーが特定のターゲットエラーかどうかを判定します。
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As はエラーが特定の型にキャスト可能かどうかを判定します。
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap は既存のエラーをメッセージ付きでラップします。
func Wrap(err error, message string) error {
	return errors.Wrap(err, message)
}

// Wrapf は既存のエラーをフォーマット文字列でラップします。
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

// New は新しいエラーを作成します。
func New(message string) error {
	return errors.New(message)
}

// Newf は新しいフォーマット済みエラーを作成します。
func Newf(format string, args ...interface{}) error {
	return errors.Newf(format, args...)
}

// WithStack はエラーにスタックトレースを付与します。
func WithStack(err error) error {
	return errors.WithStack(err)
}

// ===========================================================================
//
//	共通エラー変数
//
// ===========================================================================

var (
	// ErrEmptyData は空のデータが渡された場合のエラーです。
	ErrEmptyData = New("empty data")

	// ErrSingularMatrix は特異行列の場合のエラーです。
	ErrSingularMatrix = New("singular matrix")
)
