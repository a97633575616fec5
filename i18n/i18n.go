package i18n

import (
	"log"
	"os"
	"strings"
	"sync"

	"github.com/jeandeaual/go-locale"
)

var (
	mu   sync.RWMutex
	lang string
)

var supported = []string{"pt", "es", "ru"}

var translations = map[string]map[string]string{
	"Start": {
		"pt": "Iniciar",
		"es": "Iniciar",
		"ru": "Старт",
	},
	"Start!": {
		"pt": "Iniciar!",
		"es": "¡Iniciar!",
		"ru": "Старт!",
	},
	"Reset": {
		"pt": "Resetar",
		"es": "Reiniciar",
		"ru": "Сброс",
	},
	"(resets whole game)": {
		"pt": "(reinicia o jogo todo)",
		"es": "(reinicia todo el juego)",
		"ru": "(сбрасывает всю игру)",
	},
	"Ball Glitched": {
		"pt": "Bola Bugou",
		"es": "Bola Trabada",
		"ru": "Шар Застрял",
	},
	"Ball Glitched?": {
		"pt": "Bola Bugou?",
		"es": "¿Bola Trabada?",
		"ru": "Шар Застрял?",
	},
	"(Sorry! Try this button)": {
		"pt": "(Desculpe! Tente este botão)",
		"es": "(¡Perdón! Prueba este botón)",
		"ru": "(Извините! Нажмите сюда)",
	},
	"Join": {
		"pt": "Entrar",
		"es": "Unirse",
		"ru": "Войти",
	},
	"Skip Turn": {
		"pt": "Pular Vez",
		"es": "Saltar Turno",
		"ru": "Пропуск Хода",
	},
	"SKIP TURN": {
		"pt": "PULAR VEZ",
		"es": "SALTAR TURNO",
		"ru": "ПРОПУСК ХОДА",
	},
	"Viewer": {
		"pt": "Jogador",
		"es": "Jugador",
		"ru": "Игрок",
	},
	"Add player": {
		"pt": "Adicionar jogador",
		"es": "Añadir jugador",
		"ru": "Добавить игрока",
	},
	"Player": {
		"pt": "Jogador",
		"es": "Jugador",
		"ru": "Игрок",
	},
	"Waiting for a press": {
		"pt": "Aguardando um toque",
		"es": "Esperando una pulsación",
		"ru": "Ожидание нажатия",
	},
}

func init() {
	SetLang(detectLang())
}

func detectLang() string {
	// Check for override environment variable
	if forcedLang := strings.TrimSpace(os.Getenv("BOWLING_LANG")); forcedLang != "" {
		log.Printf("BOWLING_LANG is set to: '%s'", forcedLang)
		return forcedLang
	}

	userLocales, err := locale.GetLocales()
	if err != nil {
		log.Println("Could not get user locale, defaulting to english")
		return "en"
	}
	if len(userLocales) == 0 {
		log.Println("No user locale detected, defaulting to english")
		return "en"
	}
	log.Printf("Detected user locale: %s", userLocales[0])
	return userLocales[0]
}

// SetLang selects the translation language. Anything that is not a
// supported language prefix falls back to english.
func SetLang(l string) {
	l = strings.ToLower(strings.TrimSpace(l))
	chosen := "en"
	for _, s := range supported {
		if strings.HasPrefix(l, s) {
			chosen = s
			break
		}
	}

	mu.Lock()
	lang = chosen
	mu.Unlock()
	log.Printf("Language set to: %s", chosen)
}

// T translates key, returning key itself when no translation exists.
func T(key string) string {
	mu.RLock()
	l := lang
	mu.RUnlock()
	if translated, ok := translations[key][l]; ok {
		return translated
	}
	return key
}

func GetLang() string {
	mu.RLock()
	defer mu.RUnlock()
	return lang
}
