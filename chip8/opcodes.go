package chip8

import "context"

func (m *Machine) execOpcode(ctx context.Context, pc uint16, op Opcode) error {
	x := op.X()
	y := op.Y()
	nn := op.KK()
	nnn := op.NNN()

	switch op.ID() {
	case 0x0:
		switch nn {
		case 0xE0: // 00E0 clear display
			m.fb.Reset()
		case 0xEE: // 00EE return from subroutine
			r, err := m.stack.Ret()
			if err != nil {
				return err
			}
			m.pc = r
		default:
			// 0NNN machine code routine, ignored
		}

	case 0x1: // 1NNN goto NNN
		m.pc = nnn

	case 0x2: // 2NNN call NNN
		if err := m.stack.Call(m.pc); err != nil {
			return err
		}
		m.pc = nnn

	case 0x3: // 3XNN if(Vx==NN)
		m.skipIf(m.regs.Get(x) == nn)

	case 0x4: // 4XNN if(Vx!=NN)
		m.skipIf(m.regs.Get(x) != nn)

	case 0x5: // 5XY0 if(Vx==Vy)
		m.skipIf(m.regs.Get(x) == m.regs.Get(y))

	case 0x6: // 6XNN Vx = NN
		m.regs.Set(x, nn)

	case 0x7: // 7XNN Vx += NN (carry flag is not changed)
		m.regs.Set(x, m.regs.Get(x)+nn)

	case 0x8:
		return m.execALU(pc, op)

	case 0x9: // 9XY0 if(Vx!=Vy)
		m.skipIf(m.regs.Get(x) != m.regs.Get(y))

	case 0xA: // ANNN I = NNN
		m.regs.SetI(nnn)

	case 0xB: // BNNN PC = V0+NNN
		m.pc = uint16(m.regs.Get(0)) + nnn

	case 0xC: // CXNN Vx = rand()&NN
		m.regs.Set(x, uint8(m.rand.Intn(256))&nn)

	case 0xD: // DXYN draw(Vx,Vy,N)
		sprite, err := m.memory(m.regs.I(), int(op.N()))
		if err != nil {
			return err
		}
		flipped := m.fb.Write(int(m.regs.Get(x)), int(m.regs.Get(y)), sprite)
		m.regs.setFlag(flipped)

	case 0xE:
		key := Key(m.regs.Get(x) & 0x0f)
		switch nn {
		case 0x9E: // EX9E if(key()==Vx)
			m.skipIf(m.keys.IsSet(key))
		case 0xA1: // EXA1 if(key()!=Vx)
			m.skipIf(!m.keys.IsSet(key))
		default:
			return &IllegalOpcodeError{Address: pc, Opcode: op}
		}

	case 0xF:
		return m.execMisc(ctx, pc, op)

	default:
		panic("chip8: opcode family out of range")
	}
	return nil
}

func (m *Machine) execALU(pc uint16, op Opcode) error {
	x := op.X()
	vx := m.regs.Get(x)
	vy := m.regs.Get(op.Y())

	switch op.N() {
	case 0x0: // 8XY0 Vx = Vy
		m.regs.Set(x, vy)

	case 0x1: // 8XY1 Vx = Vx|Vy
		m.regs.Set(x, vx|vy)

	case 0x2: // 8XY2 Vx = Vx&Vy
		m.regs.Set(x, vx&vy)

	case 0x3: // 8XY3 Vx = Vx^Vy
		m.regs.Set(x, vx^vy)

	case 0x4: // 8XY4 Vx += Vy
		carried := uint16(vx)+uint16(vy) > 0xff
		m.regs.Set(x, vx+vy)
		m.regs.setFlag(carried)

	case 0x5: // 8XY5 Vx -= Vy
		borrowed := vx < vy
		m.regs.Set(x, vx-vy)
		m.regs.setFlag(!borrowed)

	case 0x6: // 8XY6 Vx >>= 1
		m.regs.Set(x, vx>>1)
		m.regs.setFlag(vx&0x01 == 1)

	case 0x7: // 8XY7 Vx = Vy-Vx
		borrowed := vy < vx
		m.regs.Set(x, vy-vx)
		m.regs.setFlag(!borrowed)

	case 0xE: // 8XYE Vx <<= 1
		m.regs.Set(x, vx<<1)
		m.regs.setFlag(vx>>7 == 1)

	default:
		return &IllegalOpcodeError{Address: pc, Opcode: op}
	}
	return nil
}

func (m *Machine) execMisc(ctx context.Context, pc uint16, op Opcode) error {
	x := op.X()
	vx := m.regs.Get(x)

	switch op.KK() {
	case 0x07: // FX07 Vx = get_delay()
		m.regs.Set(x, m.timers.Delay())

	case 0x0A: // FX0A Vx = get_key(), blocking
		k, err := m.keypad.WaitKey(ctx)
		if err != nil {
			return err
		}
		m.regs.Set(x, uint8(k))

	case 0x15: // FX15 delay_timer(Vx)
		m.timers.SetDelay(vx)

	case 0x18: // FX18 sound_timer(Vx)
		was := m.timers.Sound()
		m.timers.SetSound(vx)
		switch {
		case was == 0 && vx > 0:
			m.beeper.StartBeep()
		case was > 0 && vx == 0:
			m.beeper.StopBeep()
		}

	case 0x1E: // FX1E I += Vx
		sum := uint32(m.regs.I()) + uint32(vx)
		if sum >= MemorySize {
			return &AddressOverflowError{Address: sum}
		}
		m.regs.SetI(uint16(sum))

	case 0x29: // FX29 I = sprite_addr[Vx]
		m.regs.SetI(FontOffset + uint16(vx)*FontSpriteBytes)

	case 0x33: // FX33 set_BCD(Vx)
		b, err := m.memory(m.regs.I(), 3)
		if err != nil {
			return err
		}
		b[0] = vx / 100
		b[1] = (vx % 100) / 10
		b[2] = vx % 10

	case 0x55: // FX55 reg_dump(Vx, &I)
		b, err := m.memory(m.regs.I(), int(x)+1)
		if err != nil {
			return err
		}
		copy(b, m.regs.v[:x+1])
		m.regs.SetI(m.regs.I() + uint16(x) + 1)

	case 0x65: // FX65 reg_load(Vx, &I)
		b, err := m.memory(m.regs.I(), int(x)+1)
		if err != nil {
			return err
		}
		copy(m.regs.v[:x+1], b)
		m.regs.SetI(m.regs.I() + uint16(x) + 1)

	default:
		return &IllegalOpcodeError{Address: pc, Opcode: op}
	}
	return nil
}

func (m *Machine) skipIf(cond bool) {
	if cond {
		m.pc += 2
	}
}
