package lpc43xx

// NVIC interrupt numbers (UM10503 table 22).
const (
	IRQ_DAC         = 0
	IRQ_M0APP       = 1
	IRQ_DMA         = 2
	IRQ_FLASHEEPROM = 4
	IRQ_ETHERNET    = 5
	IRQ_SDIO        = 6
	IRQ_LCD         = 7
	IRQ_USB0        = 8
	IRQ_USB1        = 9
	IRQ_SCT         = 10
	IRQ_RITIMER     = 11
	IRQ_TIMER0      = 12
	IRQ_TIMER1      = 13
	IRQ_TIMER2      = 14
	IRQ_TIMER3      = 15
	IRQ_MCPWM       = 16
	IRQ_ADC0        = 17
	IRQ_I2C0        = 18
	IRQ_I2C1        = 19
	IRQ_SPI         = 20
	IRQ_ADC1        = 21
	IRQ_SSP0        = 22
	IRQ_SSP1        = 23
	IRQ_USART0      = 24
	IRQ_UART1       = 25
	IRQ_USART2      = 26
	IRQ_USART3      = 27
	IRQ_I2S0        = 28
	IRQ_I2S1        = 29
	IRQ_SPIFI       = 30
	IRQ_SGPIO       = 31
	IRQ_PIN_INT0    = 32
	IRQ_PIN_INT1    = 33
	IRQ_PIN_INT2    = 34
	IRQ_PIN_INT3    = 35
	IRQ_PIN_INT4    = 36
	IRQ_PIN_INT5    = 37
	IRQ_PIN_INT6    = 38
	IRQ_PIN_INT7    = 39
	IRQ_GINT0       = 40
	IRQ_GINT1       = 41
	IRQ_EVENTROUTER = 42
	IRQ_C_CAN1      = 43
	IRQ_ADCHS       = 45
	IRQ_ATIMER      = 46
	IRQ_RTC         = 47
	IRQ_WWDT        = 49
	IRQ_M0SUB       = 50
	IRQ_C_CAN0      = 51
	IRQ_QEI         = 52

	IRQ_max = 53
)
