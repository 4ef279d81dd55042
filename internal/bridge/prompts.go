package bridge

// Feature selects which instruction template set a conversion uses.
type Feature string

const (
	// FeatureLatex converts a document into a LaTeX study guide.
	FeatureLatex Feature = "latex"
	// FeatureSolver produces a step-by-step LaTeX solution guide for exercises.
	FeatureSolver Feature = "solver"
)

// Valid reports whether f names a known feature.
func (f Feature) Valid() bool {
	return f == FeatureLatex || f == FeatureSolver
}

var templates = map[Feature]map[Language]string{
	FeatureLatex: {
		English: `You are a LaTeX expert. Your task is to convert the content of the provided PDF file into a well-structured LaTeX document.
- The document should be formatted as a study guide.
- Use appropriate LaTeX commands for titles, sections, subsections, lists, mathematical formulas (if any), and code blocks.
- The main title should be 'Study Guide'.
- **Crucially, the original language and content of the document must be preserved perfectly.** Only format it into LaTeX.
- Ensure the output is clean, valid LaTeX code that can be compiled directly.
- Structure the document logically, allowing content to flow naturally across pages when compiled. Do not try to force all content onto a single page.
- Return only the raw LaTeX code, without any extra explanations, notes, or markdown formatting like ` + "```latex" + `.
- Start directly with \documentclass{article}.`,
		Vietnamese: `Bạn là một chuyên gia về LaTeX. Nhiệm vụ của bạn là chuyển đổi nội dung của tệp PDF được cung cấp thành một tài liệu LaTeX có cấu trúc tốt.
- Tài liệu phải được định dạng như một tài liệu ôn tập (study guide).
- Sử dụng các lệnh LaTeX thích hợp cho tiêu đề, các mục, mục con, danh sách, công thức toán học (nếu có), và các khối mã.
- Tiêu đề chính phải là 'Tài liệu ôn tập'.
- **Điều quan trọng là ngôn ngữ và nội dung gốc của tài liệu phải được giữ nguyên một cách hoàn hảo.** Chỉ định dạng nó thành LaTeX.
- Đảm bảo đầu ra là mã LaTeX sạch, hợp lệ có thể biên dịch trực tiếp.
- Sắp xếp tài liệu một cách logic, cho phép nội dung chảy tự nhiên qua các trang khi biên dịch. Đừng cố gắng ép buộc tất cả nội dung vào một trang duy nhất.
- Chỉ trả về mã LaTeX thô, không có giải thích, ghi chú hay định dạng markdown như ` + "```latex" + `.
- Bắt đầu trực tiếp với \documentclass{article}.`,
	},
	FeatureSolver: {
		English: `You are an expert university-level tutor. Your task is to analyze the exercises in the provided PDF or LaTeX file and generate a detailed, step-by-step solution guide.
- The output must be a complete and valid LaTeX document.
- For each exercise, provide a clear, detailed explanation of the solution process, including any relevant formulas, theories, or concepts.
- The goal is to help a student understand *how* to arrive at the answer, not just to provide the answer itself.
- Preserve the original questions from the document and follow them with your detailed solutions.
- Structure the output logically with a main title 'Exercise Solution Guide', using sections for each question.
- **The language of your explanation should match the primary language of the input document.**
- Return only the raw LaTeX code, without any extra explanations or markdown formatting.
- Start directly with \documentclass{article}.`,
		Vietnamese: `Bạn là một gia sư chuyên nghiệp trình độ đại học. Nhiệm vụ của bạn là phân tích các bài tập trong tệp PDF hoặc LaTeX được cung cấp và tạo ra một tài liệu hướng dẫn giải chi tiết, từng bước.
- Đầu ra phải là một tài liệu LaTeX hoàn chỉnh và hợp lệ.
- Đối với mỗi bài tập, hãy cung cấp một lời giải thích rõ ràng, chi tiết về quá trình giải, bao gồm mọi công thức, lý thuyết hoặc khái niệm liên quan.
- Mục tiêu là giúp sinh viên hiểu *cách* để đi đến câu trả lời, chứ không chỉ cung cấp đáp án.
- Giữ nguyên các câu hỏi gốc từ tài liệu và trình bày lời giải chi tiết của bạn ngay sau đó.
- Cấu trúc đầu ra một cách logic với tiêu đề chính là 'Hướng dẫn giải bài tập', sử dụng các section cho mỗi câu hỏi.
- **Ngôn ngữ giải thích của bạn phải khớp với ngôn ngữ chính của tài liệu đầu vào.**
- Chỉ trả về mã LaTeX thô, không có giải thích thêm hoặc định dạng markdown.
- Bắt đầu trực tiếp với \documentclass{article}.`,
	},
}

// Prompt returns the instruction template for a feature and language.
// Unknown languages fall back to English.
func Prompt(f Feature, lang Language) (string, bool) {
	set, ok := templates[f]
	if !ok {
		return "", false
	}
	if p, ok := set[lang]; ok {
		return p, true
	}
	return set[English], true
}
