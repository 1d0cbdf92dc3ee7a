package application

import (
	"fmt"
	"strings"

	"github.com/jmanzanog/ticker-lens/internal/domain"
)

func tickerPrompt(name string) string {
	return fmt.Sprintf("'%s'의 야후 파이낸스 티커 심볼만 답해줘. 한국 종목이면 .KS 또는 .KQ를 붙이고, 설명 없이 심볼 하나만 출력해.", name)
}

func askPrompt(question string) string {
	return fmt.Sprintf("경제 전문가로서 아주 친절하게 답변해줘: %s", question)
}

func newsSummaryPrompt(label string, items []domain.NewsItem) string {
	return fmt.Sprintf("%s의 최신 뉴스 제목들을 보고 주가 전망을 요약해줘:\n%s", label, headlines(items))
}

func factCheckPrompt(claim string, items []domain.NewsItem) string {
	if len(items) == 0 {
		return fmt.Sprintf("다음 주장이 사실인지 경제 전문가로서 판단하고, 근거와 함께 '사실', '거짓', '판단 불가' 중 하나로 결론을 내려줘:\n%s", claim)
	}
	return fmt.Sprintf("다음 주장이 사실인지 아래 최신 뉴스 제목들을 근거로 판단하고, '사실', '거짓', '판단 불가' 중 하나로 결론을 내려줘.\n주장: %s\n뉴스:\n%s", claim, headlines(items))
}

func headlines(items []domain.NewsItem) string {
	lines := make([]string, 0, len(items))
	for _, item := range items {
		lines = append(lines, "- "+item.Title)
	}
	return strings.Join(lines, "\n")
}
