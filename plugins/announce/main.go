// Command announce is a curlcount plugin that speaks workout events with the
// platform text-to-speech tool (say on macOS, espeak or spd-say elsewhere).
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strconv"
)

type request struct {
	Action string          `json:"action"`
	Event  string          `json:"event"`
	Params json.RawMessage `json:"params"`
}

type response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

type params struct {
	Count int    `json:"count"`
	Side  string `json:"side"`
}

// speakers are tried in order until one is installed.
var speakers = map[string][][]string{
	"darwin":  {{"say"}},
	"linux":   {{"espeak", "-s", "170"}, {"spd-say", "-w"}},
	"windows": {{"powershell", "-NoProfile", "-Command", "Add-Type -AssemblyName System.Speech; (New-Object System.Speech.Synthesis.SpeechSynthesizer).Speak($args[0])"}},
}

func main() {
	var req request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		fail(fmt.Sprintf("decode request: %v", err))
		return
	}
	if req.Action != "announce" {
		fail(fmt.Sprintf("unknown action: %s", req.Action))
		return
	}

	var p params
	if len(req.Params) > 0 && string(req.Params) != "null" {
		if err := json.Unmarshal(req.Params, &p); err != nil {
			fail(fmt.Sprintf("parse params: %v", err))
			return
		}
	}

	text, err := phrase(req.Event, p)
	if err != nil {
		fail(err.Error())
		return
	}
	if err := speak(text); err != nil {
		fail(err.Error())
		return
	}

	data, _ := json.Marshal(map[string]string{"spoken": text})
	respond(response{Success: true, Data: data})
}

func phrase(event string, p params) (string, error) {
	switch event {
	case "rep":
		return strconv.Itoa(p.Count), nil
	case "start":
		return "Let's go", nil
	case "stop":
		if p.Count == 1 {
			return "Done. 1 rep", nil
		}
		return fmt.Sprintf("Done. %d reps", p.Count), nil
	case "reset":
		return "Counter reset", nil
	default:
		return "", fmt.Errorf("unknown event: %s", event)
	}
}

func speak(text string) error {
	for _, argv := range speakers[runtime.GOOS] {
		path, err := exec.LookPath(argv[0])
		if err != nil {
			continue
		}
		args := append(argv[1:len(argv):len(argv)], text)
		out, err := exec.Command(path, args...).CombinedOutput()
		if err != nil {
			return fmt.Errorf("%s: %w: %s", argv[0], err, out)
		}
		return nil
	}
	return errors.New("no text-to-speech program found")
}

func fail(msg string) {
	respond(response{Success: false, Error: msg})
}

func respond(r response) {
	json.NewEncoder(os.Stdout).Encode(r)
}
