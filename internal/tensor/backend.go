package tensor

// Backend defines the interface compute backends must implement.
// Backends handle the actual numeric work for tensor operations; the
// memmap storage layer delegates all arithmetic to a Backend and never
// touches element values itself.
//
// Implementations:
//   - cpu: pure Go kernels, gonum-accelerated float64 paths
type Backend interface {
	// Element-wise binary operations (operands must share a shape)
	Add(a, b *RawTensor) *RawTensor
	Sub(a, b *RawTensor) *RawTensor
	Mul(a, b *RawTensor) *RawTensor
	Div(a, b *RawTensor) *RawTensor
	Pow(a, b *RawTensor) *RawTensor

	// Element-wise unary operations
	Neg(x *RawTensor) *RawTensor

	// Scalar operations (element-wise with a scalar of the tensor's dtype)
	AddScalar(x *RawTensor, scalar any) *RawTensor
	SubScalar(x *RawTensor, scalar any) *RawTensor
	MulScalar(x *RawTensor, scalar any) *RawTensor
	DivScalar(x *RawTensor, scalar any) *RawTensor
	PowScalar(x *RawTensor, scalar any) *RawTensor

	// Matrix operations
	MatMul(a, b *RawTensor) *RawTensor

	// Manipulation operations
	Cat(tensors []*RawTensor, dim int) *RawTensor   // concatenate along dimension
	Stack(tensors []*RawTensor, dim int) *RawTensor // stack along new dimension
	Chunk(x *RawTensor, n, dim int) []*RawTensor    // split into n equal parts
	Squeeze(x *RawTensor, dim int) *RawTensor       // remove dimension of size 1
	Unsqueeze(x *RawTensor, dim int) *RawTensor     // add dimension of size 1

	// Comparison operations (return bool tensor)
	Equal(a, b *RawTensor) *RawTensor

	// Type conversion
	Cast(x *RawTensor, dtype DataType) *RawTensor

	// Metadata
	Name() string
	Device() Device
}
