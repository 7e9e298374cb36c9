// Package tts speaks responses with espeak-ng through cgo.
package tts

/*
#cgo LDFLAGS: -lespeak-ng
#include <stdlib.h>
#include <string.h>
#include <espeak-ng/speak_lib.h>

static int espeak_ready = 0;

int
espeak_setup(void)
{
	if (espeak_ready)
	{ return 0; }

	if (espeak_Initialize(AUDIO_OUTPUT_PLAYBACK, 500, NULL, 0) < 0)
	{ return -1; }

	espeak_ready = 1;
	return 0;
}

int
espeak_say(const char *text, const char *lang)
{
	if (!text)
	{ return -1; }

	espeak_VOICE specs = { .languages = lang };
	espeak_SetVoiceByProperties(&specs);

	espeak_Synth(text, strlen(text) + 1, 0, POS_CHARACTER, 0, espeakCHARS_AUTO, NULL, NULL);
	espeak_Synchronize();

	return 0;
}

void
espeak_stop(void)
{
	espeak_Cancel();
}
*/
import "C"

import (
	"errors"
	"fmt"
	"sync"
	"unsafe"
)

var (
	setupOnce sync.Once
	setupErr  error
)

func setup() error {
	setupOnce.Do(func() {
		if C.espeak_setup() != 0 {
			setupErr = errors.New("espeak-ng initialization failed")
		}
	})
	return setupErr
}

// Speak voices text and blocks until playback finishes or Cancel is
// called. Empty text is a no-op.
func Speak(text, lang string) error {
	if text == "" {
		return nil
	}
	if lang == "" {
		lang = "en"
	}
	if err := setup(); err != nil {
		return err
	}

	ctext := C.CString(text)
	defer C.free(unsafe.Pointer(ctext))
	clang := C.CString(lang)
	defer C.free(unsafe.Pointer(clang))

	rc := C.espeak_say(ctext, clang)
	if rc != 0 {
		return fmt.Errorf("espeak_say failed: %d", int(rc))
	}

	return nil
}

// Cancel aborts the utterance currently playing; a blocked Speak call
// returns. Safe to call with nothing playing.
func Cancel() {
	C.espeak_stop()
}
