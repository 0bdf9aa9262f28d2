package compiler

import (
	"github.com/Cheese-S/Dojo/lang/chunk"
	"github.com/Cheese-S/Dojo/lang/object"
	"github.com/Cheese-S/Dojo/lang/token"
	"github.com/Cheese-S/Dojo/lang/value"
)

func (c *compiler) emitByte(b byte, line token.Pos) {
	c.fn.Chunk.Write(b, line)
}

func (c *compiler) emitOp(op chunk.Opcode, line token.Pos) {
	c.fn.Chunk.WriteOp(op, line)
}

func (c *compiler) emitBytes(op chunk.Opcode, b byte, line token.Pos) {
	c.emitOp(op, line)
	c.emitByte(b, line)
}

// emitConstant interns v into the constant pool, pinning it across the
// AddConstant call per lang/chunk.Chunk.AddConstant's doc comment, and
// emits a CONSTANT instruction loading it.
func (c *compiler) emitConstant(v value.Value, line token.Pos) {
	c.h.Pin(v)
	idx := c.fn.Chunk.AddConstant(v)
	c.h.Unpin()
	if idx > 0xff {
		c.errorAt(line, "too many constants in one chunk")
		idx = 0
	}
	c.emitBytes(chunk.CONSTANT, byte(idx), line)
}

// identifierConstant interns name as a string constant, deduping repeated
// references to the same identifier within one compilation unit to a
// single constant-pool slot (spec.md §4.F.3's pushIdentifier).
func (c *compiler) identifierConstant(name string, line token.Pos) byte {
	if idx, ok := c.names.Get(name); ok {
		return byte(idx)
	}
	str := c.h.InternString(name, false)
	c.h.Pin(value.FromObj(str))
	idx := c.fn.Chunk.AddConstant(value.FromObj(str))
	c.h.Unpin()
	if idx > 0xff {
		c.errorAt(line, "too many constants in one chunk")
		idx = 0
	}
	c.names.Put(name, idx)
	return byte(idx)
}

// emitJump emits a two-operand-byte jump instruction with a placeholder
// 0xff 0xff offset and returns the offset of the first placeholder byte,
// for a later patchJump to fill in (spec.md §4.F.4).
func (c *compiler) emitJump(op chunk.Opcode, line token.Pos) int {
	c.emitOp(op, line)
	c.emitByte(0xff, line)
	c.emitByte(0xff, line)
	return len(c.fn.Chunk.Code) - 2
}

// patchJump backfills the placeholder operand at offset with the distance
// from just after it to the current end of the chunk.
func (c *compiler) patchJump(offset int, line token.Pos) {
	jump := len(c.fn.Chunk.Code) - offset - 2
	if jump > maxJump {
		c.errorAt(line, "too much code to jump over")
		return
	}
	c.fn.Chunk.Code[offset] = byte(jump >> 8 & 0xff)
	c.fn.Chunk.Code[offset+1] = byte(jump & 0xff)
}

// emitLoop emits a backward LOOP instruction to loopStart.
func (c *compiler) emitLoop(loopStart int, line token.Pos) {
	c.emitOp(chunk.LOOP, line)
	offset := len(c.fn.Chunk.Code) - loopStart + 2
	if offset > maxJump {
		c.errorAt(line, "loop body too large")
	}
	c.emitByte(byte(offset>>8&0xff), line)
	c.emitByte(byte(offset&0xff), line)
}

// emitClosure emits the CLOSURE instruction for fn, following its
// fnConst byte with two bytes per captured upvalue describing whether it
// captures an enclosing local slot or an enclosing upvalue slot, and the
// index within whichever (spec.md §4.F.5, §4.G.4).
func (c *compiler) emitClosure(fn *object.ObjFn, upvals []upvalue, line token.Pos) {
	c.h.Pin(value.FromObj(fn))
	idx := c.fn.Chunk.AddConstant(value.FromObj(fn))
	c.h.Unpin()
	if idx > 0xff {
		c.errorAt(line, "too many constants in one chunk")
		idx = 0
	}
	c.emitBytes(chunk.CLOSURE, byte(idx), line)
	for _, uv := range upvals {
		if uv.isLocal {
			c.emitByte(1, line)
		} else {
			c.emitByte(0, line)
		}
		c.emitByte(byte(uv.index), line)
	}
}
