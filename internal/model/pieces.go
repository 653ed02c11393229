package model

// KingPiece steps to any of the eight adjacent squares.
type KingPiece struct{ basePiece }

func (KingPiece) Type() PieceType  { return King }
func (k KingPiece) Symbol() string { return pieceSymbol(k) }
func (k KingPiece) String() string { return pieceName(k) }

func (KingPiece) IsValid(start, end Coordinate, _ Piece) bool {
	dx, dy, dist := vector(start, end)
	return dist == 1 || (abs(dx) == 1 && abs(dy) == 1)
}

// QueenPiece moves any distance along a rank, file or diagonal. Intermediate
// squares are not inspected, so queens pass over other pieces.
type QueenPiece struct{ basePiece }

func (QueenPiece) Type() PieceType  { return Queen }
func (q QueenPiece) Symbol() string { return pieceSymbol(q) }
func (q QueenPiece) String() string { return pieceName(q) }

func (QueenPiece) IsValid(start, end Coordinate, _ Piece) bool {
	dx, dy, _ := vector(start, end)
	return diagonal(dx, dy) || straight(dx, dy)
}

type BishopPiece struct{ basePiece }

func (BishopPiece) Type() PieceType  { return Bishop }
func (b BishopPiece) Symbol() string { return pieceSymbol(b) }
func (b BishopPiece) String() string { return pieceName(b) }

func (BishopPiece) IsValid(start, end Coordinate, _ Piece) bool {
	dx, dy, _ := vector(start, end)
	return diagonal(dx, dy)
}

type RookPiece struct{ basePiece }

func (RookPiece) Type() PieceType  { return Rook }
func (r RookPiece) Symbol() string { return pieceSymbol(r) }
func (r RookPiece) String() string { return pieceName(r) }

func (RookPiece) IsValid(start, end Coordinate, _ Piece) bool {
	dx, dy, _ := vector(start, end)
	return straight(dx, dy)
}

// KnightPiece covers three squares in an L; the straight three-square moves are
// excluded.
type KnightPiece struct{ basePiece }

func (KnightPiece) Type() PieceType  { return Knight }
func (n KnightPiece) Symbol() string { return pieceSymbol(n) }
func (n KnightPiece) String() string { return pieceName(n) }

func (KnightPiece) IsValid(start, end Coordinate, _ Piece) bool {
	dx, dy, dist := vector(start, end)
	return dist == 3 && abs(dx) != 3 && abs(dy) != 3
}

// PawnPiece moves toward the opposing back rank: up for White, down for Black.
type PawnPiece struct{ basePiece }

func (PawnPiece) Type() PieceType  { return Pawn }
func (p PawnPiece) Symbol() string { return pieceSymbol(p) }
func (p PawnPiece) String() string { return pieceName(p) }

func (p PawnPiece) forward() int {
	if p.color == Black {
		return -1
	}
	return 1
}

// homeRow is the row from which the double step is allowed. Any pawn standing
// there qualifies, whether or not it has moved before.
func (p PawnPiece) homeRow() int {
	if p.color == Black {
		return 6
	}
	return 1
}

func (p PawnPiece) IsValid(start, end Coordinate, captured Piece) bool {
	dx, dy, _ := vector(start, end)
	fwd := p.forward()
	switch abs(dx) {
	case 0:
		if dy == fwd {
			return true
		}
		return start.Row == p.homeRow() && dy == 2*fwd
	case 1:
		// Diagonal steps only capture pawns.
		if captured == nil || captured.Type() != Pawn || captured.Color() == p.color {
			return false
		}
		return dy == fwd
	}
	return false
}
