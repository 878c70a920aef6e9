package script

// Template is the starting point offered for new custom algorithms.
const Template = `# Template for a custom sorting algorithm.
#
# The first function is the entry point. It receives the array to sort and calls
# emit(arr, steps) after every change so the change can be shown.

def your_sort_name(arr):
    steps = 0

    # initial state
    emit(arr, steps)

    # Example (bubble sort):
    n = len(arr)
    for i in range(n):
        for j in range(0, n - i - 1):
            if arr[j] > arr[j + 1]:
                arr[j], arr[j + 1] = arr[j + 1], arr[j]
                steps += 1
                emit(arr, steps)
`
