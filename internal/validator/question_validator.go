package validator

import (
	"encoding/json"
	"fmt"

	"github.com/lingualearn/learning-service/internal/models"
)

// QuestionValidator checks that a question's options and answer key have
// the shape its type requires. It guards authored content at import and
// create time; grading itself never assumes these checks ran.
type QuestionValidator struct{}

// NewQuestionValidator creates a new question validator
func NewQuestionValidator() *QuestionValidator {
	return &QuestionValidator{}
}

// ValidateQuestion validates a complete question object
func (v *QuestionValidator) ValidateQuestion(question *models.Question) error {
	if question.Prompt == "" {
		return fmt.Errorf("question prompt is required")
	}

	if question.Points < 1 || question.Points > 100 {
		return fmt.Errorf("question points must be between 1 and 100")
	}

	if question.Level != nil && !models.IsValidLevel(*question.Level) {
		return fmt.Errorf("unknown level code: %s", *question.Level)
	}

	return v.ValidateContent(question.Type, question.Options, question.CorrectAnswer)
}

// ValidateBatch validates multiple questions
func (v *QuestionValidator) ValidateBatch(questions []*models.Question) error {
	if len(questions) == 0 {
		return fmt.Errorf("question batch cannot be empty")
	}

	for i, question := range questions {
		if err := v.ValidateQuestion(question); err != nil {
			return fmt.Errorf("validation failed for question %d: %w", i+1, err)
		}
	}

	return nil
}

// ValidateContent validates options and answer key based on question type
func (v *QuestionValidator) ValidateContent(questionType models.QuestionType, options, correctAnswer []byte) error {
	if len(correctAnswer) == 0 {
		return fmt.Errorf("correct answer is required")
	}

	switch questionType {
	case models.MultipleChoice:
		return v.validateMultipleChoice(options, correctAnswer)
	case models.Matching:
		return v.validateMatching(options, correctAnswer)
	case models.Ordering:
		return v.validateOrdering(options, correctAnswer)
	case models.FillInBlanks:
		return v.validateFillInBlanks(correctAnswer)
	case models.Input:
		return v.validateInput(correctAnswer)
	case models.Categories:
		return v.validateCategories(options, correctAnswer)
	default:
		return fmt.Errorf("unsupported question type: %s", questionType)
	}
}

// Private validation methods for each question type

func (v *QuestionValidator) validateMultipleChoice(options, correctAnswer []byte) error {
	var opts []string
	if err := json.Unmarshal(options, &opts); err != nil {
		return fmt.Errorf("invalid multiple choice options: %w", err)
	}

	if len(opts) < 2 {
		return fmt.Errorf("must have at least 2 options")
	}

	if len(opts) > 10 {
		return fmt.Errorf("cannot have more than 10 options")
	}

	var answer string
	if err := json.Unmarshal(correctAnswer, &answer); err != nil {
		return fmt.Errorf("invalid multiple choice answer key: %w", err)
	}

	for _, opt := range opts {
		if opt == "" {
			return fmt.Errorf("option text cannot be empty")
		}
		if opt == answer {
			return nil
		}
	}
	return fmt.Errorf("correct answer %q does not match any option", answer)
}

func (v *QuestionValidator) validateMatching(options, correctAnswer []byte) error {
	var opts models.MatchingOptions
	if err := json.Unmarshal(options, &opts); err != nil {
		return fmt.Errorf("invalid matching options: %w", err)
	}

	if len(opts.Items) < 2 {
		return fmt.Errorf("must have at least 2 items")
	}

	// Answer key is either a match list parallel to Items or a pair list.
	var matches []string
	if err := json.Unmarshal(correctAnswer, &matches); err == nil {
		if len(matches) != len(opts.Items) {
			return fmt.Errorf("answer key must have one match per item")
		}
		return nil
	}

	var pairs []models.MatchPair
	if err := json.Unmarshal(correctAnswer, &pairs); err != nil {
		return fmt.Errorf("invalid matching answer key: %w", err)
	}
	if len(pairs) == 0 {
		return fmt.Errorf("must have at least 1 correct pair")
	}

	itemSet := make(map[string]bool, len(opts.Items))
	for _, item := range opts.Items {
		if item == "" {
			return fmt.Errorf("item text cannot be empty")
		}
		itemSet[item] = true
	}
	for _, pair := range pairs {
		if !itemSet[pair.Item] {
			return fmt.Errorf("answer key references non-existent item: %s", pair.Item)
		}
	}
	return nil
}

func (v *QuestionValidator) validateOrdering(options, correctAnswer []byte) error {
	var opts []string
	if err := json.Unmarshal(options, &opts); err != nil {
		return fmt.Errorf("invalid ordering options: %w", err)
	}

	if len(opts) < 2 {
		return fmt.Errorf("must have at least 2 items")
	}

	var order []string
	if err := json.Unmarshal(correctAnswer, &order); err != nil {
		return fmt.Errorf("invalid ordering answer key: %w", err)
	}

	if len(order) != len(opts) {
		return fmt.Errorf("correct order must include all items exactly once")
	}

	itemSet := make(map[string]bool, len(opts))
	for _, item := range opts {
		if item == "" {
			return fmt.Errorf("item text cannot be empty")
		}
		itemSet[item] = true
	}

	seen := make(map[string]bool, len(order))
	for _, item := range order {
		if !itemSet[item] {
			return fmt.Errorf("correct order references non-existent item: %s", item)
		}
		if seen[item] {
			return fmt.Errorf("correct order contains duplicate item: %s", item)
		}
		seen[item] = true
	}
	return nil
}

func (v *QuestionValidator) validateFillInBlanks(correctAnswer []byte) error {
	// Single blank: a bare string or a list of accepted strings.
	var single string
	if err := json.Unmarshal(correctAnswer, &single); err == nil {
		if single == "" {
			return fmt.Errorf("accepted answer cannot be empty")
		}
		return nil
	}

	var accepted []string
	if err := json.Unmarshal(correctAnswer, &accepted); err == nil {
		return validateAcceptedAnswers(accepted)
	}

	// Multiple blanks: blank name to accepted answer(s).
	var blanks map[string]json.RawMessage
	if err := json.Unmarshal(correctAnswer, &blanks); err != nil {
		return fmt.Errorf("invalid fill-in-blanks answer key: %w", err)
	}
	if len(blanks) == 0 {
		return fmt.Errorf("must have at least 1 blank")
	}
	for blankID, raw := range blanks {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			if s == "" {
				return fmt.Errorf("blank %q accepted answer cannot be empty", blankID)
			}
			continue
		}
		var list []string
		if err := json.Unmarshal(raw, &list); err != nil {
			return fmt.Errorf("blank %q has an invalid answer key", blankID)
		}
		if err := validateAcceptedAnswers(list); err != nil {
			return fmt.Errorf("blank %q: %w", blankID, err)
		}
	}
	return nil
}

func (v *QuestionValidator) validateInput(correctAnswer []byte) error {
	var single string
	if err := json.Unmarshal(correctAnswer, &single); err == nil {
		if single == "" {
			return fmt.Errorf("accepted answer cannot be empty")
		}
		return nil
	}

	var accepted []string
	if err := json.Unmarshal(correctAnswer, &accepted); err != nil {
		return fmt.Errorf("invalid input answer key: %w", err)
	}
	return validateAcceptedAnswers(accepted)
}

func (v *QuestionValidator) validateCategories(options, correctAnswer []byte) error {
	var opts models.CategoriesOptions
	if err := json.Unmarshal(options, &opts); err != nil {
		return fmt.Errorf("invalid categories options: %w", err)
	}

	if len(opts.Categories) < 2 {
		return fmt.Errorf("must have at least 2 categories")
	}

	var key map[string][]string
	if err := json.Unmarshal(correctAnswer, &key); err != nil {
		return fmt.Errorf("invalid categories answer key: %w", err)
	}
	if len(key) == 0 {
		return fmt.Errorf("answer key must assign items to at least 1 category")
	}

	declared := make(map[string]bool, len(opts.Categories))
	for _, cat := range opts.Categories {
		if cat == "" {
			return fmt.Errorf("category name cannot be empty")
		}
		declared[cat] = true
	}
	for cat, items := range key {
		if !declared[cat] {
			return fmt.Errorf("answer key references undeclared category: %s", cat)
		}
		if len(items) == 0 {
			return fmt.Errorf("category %q must contain at least 1 item", cat)
		}
	}
	return nil
}

func validateAcceptedAnswers(accepted []string) error {
	if len(accepted) == 0 {
		return fmt.Errorf("must have at least 1 accepted answer")
	}
	for i, answer := range accepted {
		if answer == "" {
			return fmt.Errorf("accepted answer %d cannot be empty", i+1)
		}
	}
	return nil
}
