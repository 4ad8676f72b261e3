package bot

import (
	"fmt"
	"html"
)

// Menu button payloads. Answer buttons use the callback package encoding.
const (
	dataStartDiagnostics = "start_diagnostics"
	dataAboutMethod      = "about_method"
	dataShowLegal        = "show_legal"
	dataConfirmConsent   = "confirm_consent"
	dataBackToStart      = "back_to_start"
	dataRestart          = "restart"
)

const defaultName = "друг"

const (
	btnStart   = "Начать диагностику"
	btnAbout   = "О методе СОВ"
	btnLegal   = "Условия и документы"
	btnConsent = "Согласен(а) и готов(а) начать"
	btnBack    = "Вернуться в начало"
	btnRestart = "Пройти заново"
)

const welcomeFormat = `Привет, %s! ❤️

Бывает, что жизнь будто ходит по одному и тому же кругу:
одни и те же ссоры в отношениях, деньги утекают сквозь пальцы, настроение качается как на качелях…
Знакомо?

Это не случайности. Это твои скрытые программы, которые тихо управляют решениями.

Я — бот метода <b>СОВ (Системы Осознанного Выбора)</b>.
За 2–3 минуты честных ответов покажу твои топ-3 самые активные программы и как именно они влияют на твою жизнь прямо сейчас.

Хочешь посмотреть правду о себе и понять, где можно всё изменить? 👀`

const consentText = `Прежде чем мы начнём диагностику, нужно подтвердить согласие с условиями:

• Ты соглашаешься с публичной офертой
• Даёшь согласие на обработку персональных данных
• Разрешаешь присылать тебе полезные материалы и напоминания (можно отписаться в любой момент)

Это стандартные правила, чтобы всё было честно и безопасно.

Если хочешь почитать документы подробнее — нажми кнопку ниже.

Готов(а) продолжить? 😊`

const aboutText = `📚 О методе СОВ — Системы Осознанного Выбора

СОВ — это простой и системный подход, который помогает увидеть, какие скрытые программы управляют вашими решениями и повторяющимися ситуациями в жизни.

Он соединяет психологию и силу осознанного выбора, чтобы вы могли перестать жить "на автопилоте" и начать менять то, что давно мешает.

Основные принципы:
• Системность — ваша психика как целое
• Осознанность — замечать автоматические реакции
• Выбор — принимать решения, которые действительно ваши

Программы — это шаблоны поведения из детства, которые влияют на отношения, деньги, карьеру и самооценку.

Диагностика покажет ваши топ-3 программы за 2–3 минуты и даст понимание, как они влияют на жизнь сейчас.

Готовы начать? Нажмите «Начать диагностику» ❤️`

const legalText = `📄 Условия и документы

• <a href="https://drive.google.com/file/d/1hNsbGW4igNVqJXjl3tApcbSXrNQiX27K/view?usp=sharing">Публичная оферта</a>
• <a href="https://drive.google.com/file/d/1lP5d-MCBvNpxNBV1hZSCRHByWgFz5LEP/view?usp=sharing">Согласие на обработку персональных данных</a>
• <a href="https://drive.google.com/file/d/1Z3250DPzMun4fuijStmcgIBN8H36-vKy/view?usp=sharing">Согласие на получение уведомлений</a>

После ознакомления просто вернись и нажми «Начать диагностику» ❤️`

const beginText = "Отлично! Начинаем диагностику ❤️"

const (
	questionHeader = "Вопрос %d из %d"
	resultHeader   = "Твои топ-%d программы:"
	resultFooter   = "Это не приговор, а карта: то, что замечено, уже можно менять."
	commentaryStep = "Первый шаг:"
)

func welcomeText(firstName string) string {
	if firstName == "" {
		firstName = defaultName
	}
	return fmt.Sprintf(welcomeFormat, html.EscapeString(firstName))
}
