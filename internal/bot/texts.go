package bot

import (
	"fmt"

	"github.com/NeverDieOne/train-bot/core/telegram/format"
	"github.com/NeverDieOne/train-bot/core/telegram/keyboard"
	"github.com/NeverDieOne/train-bot/internal/workout"

	tele "gopkg.in/telebot.v4"
)

// Callback keys shared between keyboards and handlers.
const (
	cbTrain    = "train"
	cbAddTrain = "add_train"
	cbBack     = "back"
	cbNextStep = "next_step"
)

const (
	textGreeting = "Привет! Этот бот помогает в ежедневных тренировках.\n" +
		"Он умеет напоминать о том что нужно сделать зарядку,\n" +
		"а так же показывает этапы её прохождения."
	textUploadPrompt = "Пришли мне json-файл с описанием тренировки"
	textUploadOK     = "Файл успешно загружен"
	textUploadFailed = "Не удалось прочитать файл, попробуй ещё раз"
	textNoWorkout    = "У тебя нет тренировки, добавь её сначала"
	textFinished     = "Тренировка завершена!"
	textReminder     = "Пора сделать зарядку! Жми «Начать тренировку»"

	btnTrain    = "Начать тренировку"
	btnAddTrain = "Добавить тренировку"
	btnBack     = "Назад"
	btnNextStep = "Следующий шаг"
)

func menuMarkup() *tele.ReplyMarkup {
	return keyboard.InlineButtons([]keyboard.InlineBtn{
		{Text: btnTrain, Unique: cbTrain},
		{Text: btnAddTrain, Unique: cbAddTrain},
	})
}

func backMarkup() *tele.ReplyMarkup {
	return keyboard.SingleButtonMarkup(keyboard.InlineBtn{Text: btnBack, Unique: cbBack})
}

func stepMarkup() *tele.ReplyMarkup {
	return keyboard.InlineButtons([]keyboard.InlineBtn{
		{Text: btnNextStep, Unique: cbNextStep},
		{Text: btnBack, Unique: cbBack},
	})
}

func stepCaption(step workout.Step) string {
	return fmt.Sprintf("<b>Название</b>:\n%s\n\n<b>Описание</b>:\n%s",
		format.EscapeHTML(step.Title),
		format.EscapeHTML(step.Description),
	)
}
