// Command livecode is an interactive live-coding environment for audio
// graphs.
package main

import (
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv"
)

func main() {
	Execute()
}
