package gpio

import (
	"lpcgo/lpc43xx/pinint"
	"lpcgo/lpc43xx/scu"
)

var none = pinint.Unassigned

// EDUCIAA is the pin table of the EDU-CIAA-NXP board. The four push buttons
// (TEC1..TEC4 on GPIO0[4], GPIO0[8], GPIO0[9] and GPIO1[9]) own pin
// interrupt channels 0 to 3.
var EDUCIAA = []Identity{
	// GPIO0
	{0, 0, scu.Func0, 0, 0, none},
	{0, 1, scu.Func0, 0, 1, none},
	{1, 15, scu.Func0, 0, 2, none},
	{1, 16, scu.Func0, 0, 3, none},
	{1, 0, scu.Func0, 0, 4, pinint.Assign(0)},
	{6, 6, scu.Func0, 0, 5, none},
	{3, 6, scu.Func0, 0, 6, none},
	{2, 7, scu.Func0, 0, 7, none},
	{1, 1, scu.Func0, 0, 8, pinint.Assign(1)},
	{1, 2, scu.Func0, 0, 9, pinint.Assign(2)},
	{1, 3, scu.Func0, 0, 10, none},
	{1, 4, scu.Func0, 0, 11, none},
	{1, 17, scu.Func0, 0, 12, none},
	{1, 18, scu.Func0, 0, 13, none},
	{2, 10, scu.Func0, 0, 14, none},
	{1, 20, scu.Func0, 0, 15, none},
	// GPIO1
	{1, 7, scu.Func0, 1, 0, none},
	{1, 8, scu.Func0, 1, 1, none},
	{1, 9, scu.Func0, 1, 2, none},
	{1, 10, scu.Func0, 1, 3, none},
	{1, 11, scu.Func0, 1, 4, none},
	{1, 12, scu.Func0, 1, 5, none},
	{1, 13, scu.Func0, 1, 6, none},
	{1, 14, scu.Func0, 1, 7, none},
	{1, 5, scu.Func0, 1, 8, none},
	{1, 6, scu.Func0, 1, 9, pinint.Assign(3)},
	{2, 9, scu.Func0, 1, 10, none},
	{2, 11, scu.Func0, 1, 11, none},
	{2, 12, scu.Func0, 1, 12, none},
	{2, 13, scu.Func0, 1, 13, none},
	{3, 4, scu.Func0, 1, 14, none},
	{3, 5, scu.Func0, 1, 15, none},
	// GPIO2
	{4, 0, scu.Func0, 2, 0, none},
	{4, 1, scu.Func0, 2, 1, none},
	{4, 2, scu.Func0, 2, 2, none},
	{4, 3, scu.Func0, 2, 3, none},
	{4, 4, scu.Func0, 2, 4, none},
	{4, 5, scu.Func0, 2, 5, none},
	{4, 6, scu.Func0, 2, 6, none},
	{5, 7, scu.Func0, 2, 7, none},
	{6, 12, scu.Func0, 2, 8, none},
	{5, 0, scu.Func0, 2, 9, none},
	{5, 1, scu.Func0, 2, 10, none},
	{5, 2, scu.Func0, 2, 11, none},
	{5, 3, scu.Func0, 2, 12, none},
	{5, 4, scu.Func0, 2, 13, none},
	{5, 5, scu.Func0, 2, 14, none},
	{5, 6, scu.Func0, 2, 15, none},
	// GPIO3
	{6, 1, scu.Func0, 3, 0, none},
	{6, 2, scu.Func0, 3, 1, none},
	{6, 3, scu.Func0, 3, 2, none},
	{6, 4, scu.Func0, 3, 3, none},
	{6, 5, scu.Func0, 3, 4, none},
	{6, 9, scu.Func0, 3, 5, none},
	{6, 10, scu.Func0, 3, 6, none},
	{6, 11, scu.Func0, 3, 7, none},
	{7, 0, scu.Func0, 3, 8, none},
	{7, 1, scu.Func0, 3, 9, none},
	{7, 2, scu.Func0, 3, 10, none},
	{7, 3, scu.Func0, 3, 11, none},
	{7, 4, scu.Func0, 3, 12, none},
	{7, 5, scu.Func0, 3, 13, none},
	{7, 6, scu.Func0, 3, 14, none},
	{7, 7, scu.Func0, 3, 15, none},
	// GPIO4
	{8, 0, scu.Func0, 4, 0, none},
	{8, 1, scu.Func0, 4, 1, none},
	{8, 2, scu.Func0, 4, 2, none},
	{8, 3, scu.Func0, 4, 3, none},
	{8, 4, scu.Func0, 4, 4, none},
	{8, 5, scu.Func0, 4, 5, none},
	{8, 6, scu.Func0, 4, 6, none},
	{8, 7, scu.Func0, 4, 7, none},
	{0xA, 1, scu.Func0, 4, 8, none},
	{0xA, 2, scu.Func0, 4, 9, none},
	{0xA, 3, scu.Func0, 4, 10, none},
	{9, 6, scu.Func0, 4, 11, none},
	{9, 0, scu.Func0, 4, 12, none},
	{9, 1, scu.Func0, 4, 13, none},
	{9, 2, scu.Func0, 4, 14, none},
	{9, 3, scu.Func0, 4, 15, none},
	// GPIO5
	{2, 0, scu.Func4, 5, 0, none},
	{2, 1, scu.Func4, 5, 1, none},
	{2, 2, scu.Func4, 5, 2, none},
	{2, 3, scu.Func4, 5, 3, none},
	{2, 4, scu.Func4, 5, 4, none},
	{2, 5, scu.Func4, 5, 5, none},
	{2, 6, scu.Func4, 5, 6, none},
	{2, 8, scu.Func4, 5, 7, none},
	{3, 1, scu.Func4, 5, 8, none},
	{3, 2, scu.Func4, 5, 9, none},
	{3, 7, scu.Func4, 5, 10, none},
	{3, 8, scu.Func4, 5, 11, none},
	{4, 8, scu.Func4, 5, 12, none},
	{4, 9, scu.Func4, 5, 13, none},
	{4, 10, scu.Func4, 5, 14, none},
	{6, 7, scu.Func4, 5, 15, none},
	{6, 8, scu.Func4, 5, 16, none},
	{9, 4, scu.Func4, 5, 17, none},
	{9, 5, scu.Func4, 5, 18, none},
	{0xA, 4, scu.Func4, 5, 19, none},
	{0xB, 0, scu.Func4, 5, 20, none},
	{0xB, 1, scu.Func4, 5, 21, none},
	{0xB, 2, scu.Func4, 5, 22, none},
	{0xB, 3, scu.Func4, 5, 23, none},
	{0xB, 4, scu.Func4, 5, 24, none},
	{0xB, 5, scu.Func4, 5, 25, none},
	{0xB, 6, scu.Func4, 5, 26, none},
	// GPIO6
	{0xC, 1, scu.Func4, 6, 0, none},
	{0xC, 2, scu.Func4, 6, 1, none},
	{0xC, 3, scu.Func4, 6, 2, none},
	{0xC, 4, scu.Func4, 6, 3, none},
	{0xC, 5, scu.Func4, 6, 4, none},
	{0xC, 6, scu.Func4, 6, 5, none},
	{0xC, 7, scu.Func4, 6, 6, none},
	{0xC, 8, scu.Func4, 6, 7, none},
	{0xC, 9, scu.Func4, 6, 8, none},
	{0xC, 10, scu.Func4, 6, 9, none},
	{0xC, 11, scu.Func4, 6, 10, none},
	{0xC, 12, scu.Func4, 6, 11, none},
	{0xC, 13, scu.Func4, 6, 12, none},
	{0xC, 14, scu.Func4, 6, 13, none},
	{0xD, 0, scu.Func4, 6, 14, none},
	{0xD, 1, scu.Func4, 6, 15, none},
	{0xD, 2, scu.Func4, 6, 16, none},
	{0xD, 3, scu.Func4, 6, 17, none},
	{0xD, 4, scu.Func4, 6, 18, none},
	{0xD, 5, scu.Func4, 6, 19, none},
	{0xD, 6, scu.Func4, 6, 20, none},
	{0xD, 7, scu.Func4, 6, 21, none},
	{0xD, 8, scu.Func4, 6, 22, none},
	{0xD, 9, scu.Func4, 6, 23, none},
	{0xD, 10, scu.Func4, 6, 24, none},
	{0xD, 11, scu.Func4, 6, 25, none},
	{0xD, 12, scu.Func4, 6, 26, none},
	{0xD, 13, scu.Func4, 6, 27, none},
	{0xD, 14, scu.Func4, 6, 28, none},
	{0xD, 15, scu.Func4, 6, 29, none},
	{0xD, 16, scu.Func4, 6, 30, none},
	// GPIO7
	{0xE, 0, scu.Func4, 7, 0, none},
	{0xE, 1, scu.Func4, 7, 1, none},
	{0xE, 2, scu.Func4, 7, 2, none},
	{0xE, 3, scu.Func4, 7, 3, none},
	{0xE, 4, scu.Func4, 7, 4, none},
	{0xE, 5, scu.Func4, 7, 5, none},
	{0xE, 6, scu.Func4, 7, 6, none},
	{0xE, 7, scu.Func4, 7, 7, none},
	{0xE, 8, scu.Func4, 7, 8, none},
	{0xE, 9, scu.Func4, 7, 9, none},
	{0xE, 10, scu.Func4, 7, 10, none},
	{0xE, 11, scu.Func4, 7, 11, none},
	{0xE, 12, scu.Func4, 7, 12, none},
	{0xE, 13, scu.Func4, 7, 13, none},
	{0xE, 14, scu.Func4, 7, 14, none},
	{0xE, 15, scu.Func4, 7, 15, none},
	{0xF, 1, scu.Func4, 7, 16, none},
	{0xF, 2, scu.Func4, 7, 17, none},
	{0xF, 3, scu.Func4, 7, 18, none},
	{0xF, 5, scu.Func4, 7, 19, none},
	{0xF, 6, scu.Func4, 7, 20, none},
	{0xF, 7, scu.Func4, 7, 21, none},
	{0xF, 8, scu.Func4, 7, 22, none},
	{0xF, 9, scu.Func4, 7, 23, none},
	{0xF, 10, scu.Func4, 7, 24, none},
	{0xF, 11, scu.Func4, 7, 25, none},
}
