package seedmodels

// SeedLearnContent is one video or note of a milestone in the JSON seed file.
type SeedLearnContent struct {
	ID                  string                 `json:"id"`
	Title               string                 `json:"title"`
	VideoURL            string                 `json:"video_url"`
	AudioURL            string                 `json:"audio_url"`
	Transcript          string                 `json:"transcript"`
	AdditionalResources map[string]interface{} `json:"additional_resources"`
	IsAdditional        bool                   `json:"is_additional"`
}

type SeedCodeQuestion struct {
	ID          string `json:"id"`
	Question    string `json:"question"`
	ExampleCode string `json:"example_code"`
	Hint        string `json:"hint"`
	VideoURL    string `json:"video_url"`
	AudioURL    string `json:"audio_url"`
}

type SeedMCQQuestion struct {
	ID            string            `json:"id"`
	QuestionText  string            `json:"question_text"`
	Options       map[string]string `json:"options"`
	CorrectAnswer string            `json:"correct_answer"`
	Explanation   string            `json:"explanation"`
}

// SeedMilestone defines a milestone with all of its content. Order inside each list is the display order.
type SeedMilestone struct {
	ID            string             `json:"id"`
	Title         string             `json:"title"`
	Description   string             `json:"description"`
	Inactive      bool               `json:"inactive"`
	LearnContent  []SeedLearnContent `json:"learn_content"`
	CodeQuestions []SeedCodeQuestion `json:"code_questions"`
	MCQQuestions  []SeedMCQQuestion  `json:"mcq_questions"`
}
