package info

// Plain-text versions of the bot's static screens.
const (
	AboutTitle = "О методе"
	AboutText  = `СОВ (Системы Осознанного Выбора) помогает увидеть, какие скрытые
программы управляют решениями и повторяющимися ситуациями в жизни.

Программы — это шаблоны поведения из детства, которые влияют на
отношения, деньги, карьеру и самооценку.

Диагностика покажет твои топ-3 программы за 2–3 минуты.`

	LegalTitle = "Условия и документы"
	LegalText  = `Публичная оферта:
https://drive.google.com/file/d/1hNsbGW4igNVqJXjl3tApcbSXrNQiX27K/view

Согласие на обработку персональных данных:
https://drive.google.com/file/d/1lP5d-MCBvNpxNBV1hZSCRHByWgFz5LEP/view

Согласие на получение уведомлений:
https://drive.google.com/file/d/1Z3250DPzMun4fuijStmcgIBN8H36-vKy/view`

	ConsentTitle = "Согласие"
	ConsentText  = `Прежде чем начать, подтверди согласие с условиями:

• публичная оферта
• обработка персональных данных
• получение полезных материалов и напоминаний

Документы можно прочитать в разделе «Условия и документы».`
	ConsentConfirm = "Согласен(а), начать"
)
